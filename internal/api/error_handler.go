package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackly/project-tracker/internal/api/metrics"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/ports"
	"github.com/trackly/project-tracker/internal/core/validation"
)

// errorResponse is the envelope for errors that did not come from the core.
type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// formErrorResponse carries field violations back to the form that sent them.
type formErrorResponse struct {
	Status   int                 `json:"status"`
	Error    string              `json:"error"`
	Result   validation.Result   `json:"result"`
	Messages map[string][]string `json:"messages"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Returns form rule failures inline with 422 and the field violations.
//   - Renders core rejections as their {status, error, message} envelope and
//     raises an error notification for everything but validation failures.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(notifications ports.NotificationQueue, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var formErr *validation.Error
		if errors.As(err, &formErr) {
			_ = c.JSON(http.StatusUnprocessableEntity, formErrorResponse{
				Status:   http.StatusUnprocessableEntity,
				Error:    domain.ErrValidation.Error(),
				Result:   formErr.Result,
				Messages: validation.Messages(formErr.Result),
			})
			return
		}

		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Kind != domain.KindValidation {
				notifications.Error(apiErr.Err, apiErr.Message)
				metrics.NotificationsPushedTotal.WithLabelValues(string(apiErr.Kind)).Inc()
			}
			if apiErr.Kind == domain.KindUnavailable {
				log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("storage unavailable")
			}
			_ = c.JSON(apiErr.Status, apiErr)
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Status: code, Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, guards).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debug().Err(err).Str("path", c.Path()).Msg("request abandoned before result")
		return http.StatusRequestTimeout, "request abandoned"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
