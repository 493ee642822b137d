package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
)

// await blocks on f for as long as the request is alive.
func await[T any](c echo.Context, f *async.Future[T]) (domain.APIResponse[T], error) {
	return f.Await(c.Request().Context())
}

// ctxUser returns the session user injected by the session guard.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get("user").(*domain.User)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return u, nil
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}
	return id, nil
}

// bindForm decodes the body into form and runs the form rules on it.
func bindForm(c echo.Context, form any) error {
	if err := c.Bind(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(form)
}
