package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/ports"
)

type NotificationHandler struct {
	queue ports.NotificationQueue
}

func NewNotificationHandler(queue ports.NotificationQueue) *NotificationHandler {
	return &NotificationHandler{queue: queue}
}

type pushNotificationRequest struct {
	Type    domain.NotificationType `json:"type" validate:"required,oneof=success error warning info"`
	Title   string                  `json:"title" validate:"required"`
	Message string                  `json:"message"`
}

// List returns pending notifications, oldest first.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  domain.Notification
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.queue.List())
}

// Push adds a notification raised by the UI itself.
//
// @Summary      Push a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        body  body      pushNotificationRequest  true  "Notification"
// @Success      201   {object}  domain.Notification
// @Failure      422   {object}  validationResponse
// @Router       /notifications [post]
func (h *NotificationHandler) Push(c echo.Context) error {
	var req pushNotificationRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.queue.Push(req.Type, req.Title, req.Message))
}

// Dismiss removes one notification.
//
// @Summary      Dismiss a notification
// @Tags         notifications
// @Param        id   path  string  true  "Notification id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	if !h.queue.Dismiss(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear removes every notification.
//
// @Summary      Clear notifications
// @Tags         notifications
// @Success      204
// @Router       /notifications [delete]
func (h *NotificationHandler) Clear(c echo.Context) error {
	h.queue.Clear()
	return c.NoContent(http.StatusNoContent)
}
