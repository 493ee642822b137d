package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/core/validation"
)

// FormHandler evaluates form rules without submitting anything.
type FormHandler struct {
	forms *validation.Validator
}

func NewFormHandler(forms *validation.Validator) *FormHandler {
	return &FormHandler{forms: forms}
}

type validationResponse struct {
	Valid    bool                `json:"valid"`
	Result   validation.Result   `json:"result"`
	Messages map[string][]string `json:"messages,omitempty"`
}

// ValidateLogin runs the login form rules.
//
// @Summary      Validate login form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      validation.LoginForm  true  "Form values"
// @Success      200   {object}  validationResponse
// @Router       /forms/login/validate [post]
func (h *FormHandler) ValidateLogin(c echo.Context) error {
	var form validation.LoginForm
	return h.check(c, &form)
}

// ValidateProject runs the project form rules, including the date range.
//
// @Summary      Validate project form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      validation.ProjectForm  true  "Form values"
// @Success      200   {object}  validationResponse
// @Router       /forms/project/validate [post]
func (h *FormHandler) ValidateProject(c echo.Context) error {
	var form validation.ProjectForm
	return h.check(c, &form)
}

type startDateRequest struct {
	Form      validation.ProjectForm `json:"form"`
	StartDate string                 `json:"startDate"`
}

// ChangeStartDate applies a new start date to the form, clearing an end date
// that would now precede it, and returns the form with its rule results.
//
// @Summary      Change project start date
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      startDateRequest  true  "Current form and new start date"
// @Success      200   {object}  startDateResponse
// @Router       /forms/project/start-date [post]
func (h *FormHandler) ChangeStartDate(c echo.Context) error {
	var req startDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Form.SetStartDate(req.StartDate)

	res, err := h.forms.Check(req.Form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, startDateResponse{Form: req.Form, validationResponse: newValidationResponse(res)})
}

type startDateResponse struct {
	Form validation.ProjectForm `json:"form"`
	validationResponse
}

func (h *FormHandler) check(c echo.Context, form any) error {
	if err := c.Bind(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := h.forms.Check(form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newValidationResponse(res))
}

func newValidationResponse(res validation.Result) validationResponse {
	out := validationResponse{Valid: res.Valid(), Result: res}
	if !out.Valid {
		out.Messages = validation.Messages(res)
	}
	return out
}
