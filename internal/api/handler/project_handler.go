package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/api/metrics"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/ports"
	"github.com/trackly/project-tracker/internal/core/validation"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	projects      ports.ProjectRepository
	notifications ports.NotificationQueue
	now           func() time.Time
}

func NewProjectHandler(projects ports.ProjectRepository, notifications ports.NotificationQueue) *ProjectHandler {
	return &ProjectHandler{projects: projects, notifications: notifications, now: time.Now}
}

// List returns every project in creation order.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  domain.APIResponse[[]domain.Project]
// @Failure      401  {object}  map[string]any
// @Failure      503  {object}  domain.APIError
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	resp, err := await(c, h.projects.List(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(resp.Status, resp)
}

// Create adds a project after running the project form rules.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      validation.ProjectForm  true  "Project"
// @Success      201   {object}  domain.APIResponse[domain.Project]
// @Failure      400   {object}  domain.APIError
// @Failure      422   {object}  validationResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var form validation.ProjectForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	resp, err := await(c, h.projects.Create(c.Request().Context(), form.Request()))
	observeMutation("create", err)
	if err != nil {
		return err
	}

	h.notifications.Success("Project Created",
		fmt.Sprintf("Project %q has been created successfully!", resp.Data.Name))
	return c.JSON(resp.Status, resp)
}

type updateProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	StartDate   *string               `json:"startDate"`
	EndDate     *string               `json:"endDate"`
	Status      *domain.ProjectStatus `json:"status"`
}

// Update patches the fields present in the body. The merged project must
// still pass the project form rules.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  domain.APIResponse[domain.Project]
// @Failure      400   {object}  domain.APIError
// @Failure      404   {object}  domain.APIError
// @Failure      422   {object}  validationResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	resp, err := await(c, h.projects.Update(c.Request().Context(), id, domain.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	}))
	observeMutation("update", err)
	if err != nil {
		return err
	}

	h.notifications.Success("Project Updated", fmt.Sprintf("Project %q has been updated.", resp.Data.Name))
	return c.JSON(resp.Status, resp)
}

// Delete removes a project. Admin only.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project id"
// @Success      200  {object}  domain.APIResponse[domain.Project]
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  domain.APIError
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	resp, err := await(c, h.projects.Delete(c.Request().Context(), id))
	observeMutation("delete", err)
	if err != nil {
		return err
	}

	h.notifications.Success("Project Deleted", fmt.Sprintf("Project %q has been deleted.", resp.Data.Name))
	return c.JSON(resp.Status, resp)
}

type dashboardSummary struct {
	User      *domain.User `json:"user"`
	Total     int          `json:"total"`
	Active    int          `json:"active"`
	Completed int          `json:"completed"`
	OnHold    int          `json:"onHold"`
	// Recent holds up to five projects, newest first.
	Recent []domain.Project `json:"recent"`
}

const recentProjects = 5

// Dashboard summarises the collection for the signed-in user.
//
// @Summary      Dashboard summary
// @Tags         projects
// @Produce      json
// @Success      200  {object}  dashboardSummary
// @Router       /dashboard [get]
func (h *ProjectHandler) Dashboard(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	resp, err := await(c, h.projects.List(c.Request().Context()))
	if err != nil {
		return err
	}

	sum := dashboardSummary{User: user, Total: len(resp.Data), Recent: []domain.Project{}}
	for _, p := range resp.Data {
		switch p.Status {
		case domain.ProjectActive:
			sum.Active++
		case domain.ProjectCompleted:
			sum.Completed++
		case domain.ProjectOnHold:
			sum.OnHold++
		}
	}
	for i := len(resp.Data) - 1; i >= 0 && len(sum.Recent) < recentProjects; i-- {
		sum.Recent = append(sum.Recent, resp.Data[i])
	}
	return c.JSON(http.StatusOK, sum)
}

// Defaults returns a blank project form with the default date range.
//
// @Summary      Project form defaults
// @Tags         forms
// @Produce      json
// @Success      200  {object}  validation.ProjectForm
// @Router       /forms/project/defaults [get]
func (h *ProjectHandler) Defaults(c echo.Context) error {
	return c.JSON(http.StatusOK, validation.NewProjectForm(h.now()))
}

func observeMutation(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		outcome = string(domain.KindValidation)
	default:
		outcome = string(domain.AsAPIError(err).Kind)
	}
	metrics.ProjectMutationsTotal.WithLabelValues(op, outcome).Inc()
}
