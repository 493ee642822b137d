package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/persistence"
	"github.com/trackly/project-tracker/internal/core/service"
	"github.com/trackly/project-tracker/internal/core/validation"
	"github.com/trackly/project-tracker/internal/infrastructure/db/memory"
)

type testApp struct {
	e     *echo.Echo
	queue *service.NotificationQueue
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := memory.NewKVStore()
	adapter := persistence.NewAdapter(store, 0, zerolog.Nop())

	auth, err := service.NewAuthService(context.Background(), adapter, service.AuthOptions{TokenSecret: "test"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	queue := service.NewNotificationQueue(zerolog.Nop())

	e, err := NewRouter(Deps{
		Auth:          auth,
		Projects:      service.NewProjectRepository(adapter, service.ProjectLatency{}, zerolog.Nop()),
		Notifications: queue,
		Forms:         validation.New(),
		Store:         store,
		StorageDriver: "memory",
		Log:           zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &testApp{e: e, queue: queue}
}

func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, email string) {
	t.Helper()
	rec := a.do(http.MethodPost, "/auth/login", fmt.Sprintf(`{"email":%q,"password":"password123"}`, email))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestRouter_GuardedRoutesNeedSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/projects", "/dashboard"} {
		if rec := app.do(http.MethodGet, path, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
	if app.queue.Len() != 0 {
		t.Fatal("guard rejections are not notifications")
	}

	session := decode[map[string]any](t, app.do(http.MethodGet, "/auth/session", ""))
	if session["authenticated"] != false || session["redirect"] != "/login" {
		t.Fatalf("unexpected session: %v", session)
	}
}

func TestRouter_FailedLoginRaisesNotification(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"nope-nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decode[domain.APIError](t, rec)
	if body.Status != 401 || body.Err != "Invalid credentials" || body.Message != "Email or password is incorrect" {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	notes := app.queue.List()
	if len(notes) != 1 || notes[0].Type != domain.NotificationError || notes[0].Title != "Invalid credentials" {
		t.Fatalf("expected one error notification, got %+v", notes)
	}
}

func TestRouter_FormErrorsStayInline(t *testing.T) {
	app := newTestApp(t)
	app.login(t, "user@example.com")

	rec := app.do(http.MethodPost, "/projects", `{"name":"x","startDate":"2024-03-10","endDate":"2024-03-01"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[formErrorResponse](t, rec)
	if !body.Result.Has("name", validation.RuleMinLength) || !body.Result.Has("", validation.RuleDateRange) {
		t.Fatalf("unexpected violations: %+v", body.Result)
	}
	if app.queue.Len() != 0 {
		t.Fatal("validation failures must not raise notifications")
	}
}

func TestRouter_ProjectLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.login(t, "admin@example.com")

	rec := app.do(http.MethodPost, "/projects", `{"name":"Apollo","startDate":"2024-03-01","endDate":"2024-03-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.APIResponse[domain.Project]](t, rec).Data

	rec = app.do(http.MethodPost, "/projects", `{"name":" apollo ","startDate":"2024-03-01","endDate":"2024-03-10"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", rec.Code)
	}

	notes := app.queue.List()
	if len(notes) != 2 || notes[0].Type != domain.NotificationSuccess || notes[1].Type != domain.NotificationError {
		t.Fatalf("unexpected notifications: %+v", notes)
	}

	rec = app.do(http.MethodPut, fmt.Sprintf("/projects/%d", created.ID), `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	sum := decode[map[string]any](t, app.do(http.MethodGet, "/dashboard", ""))
	if sum["total"] != float64(1) || sum["completed"] != float64(1) {
		t.Fatalf("unexpected summary: %v", sum)
	}

	rec = app.do(http.MethodDelete, fmt.Sprintf("/projects/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.do(http.MethodDelete, fmt.Sprintf("/projects/%d", created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	list := decode[domain.APIResponse[[]domain.Project]](t, app.do(http.MethodGet, "/projects", ""))
	if len(list.Data) != 0 {
		t.Fatalf("expected empty list, got %+v", list.Data)
	}
}

func TestRouter_UpdateKeepsProjectRules(t *testing.T) {
	app := newTestApp(t)
	app.login(t, "user@example.com")

	rec := app.do(http.MethodPost, "/projects", `{"name":"Alpha","startDate":"2024-03-01","endDate":"2024-03-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.APIResponse[domain.Project]](t, rec).Data
	path := fmt.Sprintf("/projects/%d", created.ID)

	for _, body := range []string{
		`{"startDate":"2024-03-10T00:00:00Z","endDate":"2024-03-01"}`,
		`{"endDate":"01/03/2024"}`,
		`{"name":"x"}`,
	} {
		if rec := app.do(http.MethodPut, path, body); rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d %s", body, rec.Code, rec.Body.String())
		}
	}

	list := decode[domain.APIResponse[[]domain.Project]](t, app.do(http.MethodGet, "/projects", ""))
	if len(list.Data) != 1 {
		t.Fatalf("expected one project, got %+v", list.Data)
	}
	got := list.Data[0]
	if got.Name != "Alpha" || got.StartDate != "2024-03-01" || got.EndDate != "2024-03-10" {
		t.Fatalf("rejected updates must not be stored: %+v", got)
	}
}

func TestRouter_StartDateClearsEarlierEnd(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/forms/project/start-date",
		`{"form":{"name":"Alpha","startDate":"2024-03-01","endDate":"2024-03-10"},"startDate":"2024-04-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	body := decode[struct {
		Form   validation.ProjectForm `json:"form"`
		Valid  bool                   `json:"valid"`
		Result validation.Result      `json:"result"`
	}](t, rec)
	if body.Form.StartDate != "2024-04-01" || body.Form.EndDate != "" {
		t.Fatalf("expected end date cleared, got %+v", body.Form)
	}
	if body.Valid || !body.Result.Has("endDate", validation.RuleRequired) {
		t.Fatalf("expected missing end date reported, got %+v", body.Result)
	}
}

func TestRouter_DeleteIsAdminOnly(t *testing.T) {
	app := newTestApp(t)
	app.login(t, "user@example.com")

	rec := app.do(http.MethodPost, "/projects", `{"name":"Gemini","startDate":"2024-03-01","endDate":"2024-03-10"}`)
	created := decode[domain.APIResponse[domain.Project]](t, rec).Data

	rec = app.do(http.MethodDelete, fmt.Sprintf("/projects/%d", created.ID), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_LogoutClosesGuard(t *testing.T) {
	app := newTestApp(t)
	app.login(t, "admin@example.com")

	if rec := app.do(http.MethodGet, "/projects", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := app.do(http.MethodPost, "/auth/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec := app.do(http.MethodGet, "/projects", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"password123"}`)

	if rec := app.do(http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d", rec.Code)
	}

	rec := app.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	for _, name := range []string{"tracker_login_attempts_total", "tracker_notification_queue_depth"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
