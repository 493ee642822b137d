package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/validation"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) *async.Future[domain.LoginResponse]
	logoutFn func(ctx context.Context) error
	user     *domain.User
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) *async.Future[domain.LoginResponse] {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubAuthService) IsAuthenticated() bool     { return s.user != nil }
func (s *stubAuthService) CurrentUser() *domain.User { return s.user }
func (s *stubAuthService) Token() string             { return "" }

func (s *stubAuthService) Subscribe() (<-chan domain.SessionEvent, func()) {
	ch := make(chan domain.SessionEvent)
	return ch, func() { close(ch) }
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator(validation.New())
	return e
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) *async.Future[domain.LoginResponse] {
			if email != "admin@example.com" || password != "password123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return async.Resolved(domain.APIResponse[domain.LoginResponse]{
				Status:  http.StatusOK,
				Data:    domain.LoginResponse{User: domain.User{ID: 1, Name: "Admin User", Role: domain.RoleAdmin}, Token: "token123"},
				Message: "Login successful",
			})
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"password123"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status  int            `json:"status"`
		Data    map[string]any `json:"data"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data["token"] != "token123" || resp.Message != "Login successful" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	user, ok := resp.Data["user"].(map[string]any)
	if !ok || user["role"] != "admin" || user["name"] != "Admin User" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("user payload must not carry a password")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) *async.Future[domain.LoginResponse] {
			return async.Rejected[domain.LoginResponse](domain.NewAuthenticationError())
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"wrong-password"}`)
	err := handler.Login(c)

	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatal("rendering is left to the error handler")
	}
}

func TestAuthHandler_Login_FormRules(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) *async.Future[domain.LoginResponse] {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonRequest(e, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"123"}`)
	err := handler.Login(c)

	var formErr *validation.Error
	if !errors.As(err, &formErr) {
		t.Fatalf("expected form error, got %v", err)
	}
	if !formErr.Result.Has("email", validation.RuleEmail) || !formErr.Result.Has("password", validation.RuleMinLength) {
		t.Fatalf("unexpected violations: %+v", formErr.Result)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := jsonRequest(e, http.MethodPost, "/auth/login", "{")
	err := handler.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	cases := []struct {
		name     string
		user     *domain.User
		auth     bool
		redirect string
	}{
		{"anonymous", nil, false, "/login"},
		{"authenticated", &domain.User{ID: 2, Role: domain.RoleUser}, true, "/dashboard"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			handler := NewAuthHandler(&stubAuthService{user: tc.user})

			c, rec := jsonRequest(e, http.MethodGet, "/auth/session", "")
			if err := handler.Session(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp sessionResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Authenticated != tc.auth || resp.Redirect != tc.redirect {
				t.Fatalf("unexpected session: %+v", resp)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	called := false
	handler := NewAuthHandler(&stubAuthService{logoutFn: func(context.Context) error {
		called = true
		return nil
	}})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected logout, got %d", rec.Code)
	}
}
