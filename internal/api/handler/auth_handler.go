package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/api/metrics"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/ports"
	"github.com/trackly/project-tracker/internal/core/validation"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	// Redirect is where the UI should send the user from the login page or a
	// guarded page.
	Redirect string `json:"redirect"`
}

// Login authenticates against the seed credentials.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validation.LoginForm  true  "Login credentials"
// @Success      200   {object}  domain.APIResponse[domain.LoginResponse]
// @Failure      401   {object}  domain.APIError
// @Failure      422   {object}  validationResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form validation.LoginForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	resp, err := await(c, h.authService.Login(c.Request().Context(), string(form.Email), string(form.Password)))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(resp.Status, resp)
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.APIResponse[any]
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return domain.NewUnavailableError(err)
	}
	return c.JSON(http.StatusOK, domain.APIResponse[any]{Status: http.StatusOK, Message: "Logged out"})
}

// Session reports the current session and where the UI should route.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	if !h.authService.IsAuthenticated() {
		return c.JSON(http.StatusOK, sessionResponse{Redirect: loginPath})
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          h.authService.CurrentUser(),
		Redirect:      dashboardPath,
	})
}
