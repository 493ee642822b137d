package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/trackly/project-tracker/internal/core/domain"
)

func validProject() ProjectForm {
	return ProjectForm{
		Name:      "Apollo",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-10",
	}
}

func TestCheck_DateRange(t *testing.T) {
	v := New()
	cases := []struct {
		name       string
		start, end Text
		violation  bool
	}{
		{"start after end", "2024-03-10", "2024-03-01", true},
		{"start before end", "2024-03-01", "2024-03-10", false},
		{"same day", "2024-03-01", "2024-03-01", false},
		{"end absent", "2024-03-10", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validProject()
			f.StartDate, f.EndDate = tc.start, tc.end

			res, err := v.Check(f)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if got := res.Has("", RuleDateRange); got != tc.violation {
				t.Fatalf("expected dateRange=%v, got %+v", tc.violation, res)
			}
		})
	}
}

func TestCheck_EndAbsentIsRequiredViolation(t *testing.T) {
	f := validProject()
	f.EndDate = ""

	res, _ := New().Check(f)
	if !res.Has("endDate", RuleRequired) {
		t.Fatalf("expected required on endDate, got %+v", res)
	}
}

func TestCheck_ProjectFieldRules(t *testing.T) {
	v := New()
	cases := []struct {
		name  string
		edit  func(*ProjectForm)
		field string
		rule  Rule
		param string
	}{
		{"empty name", func(f *ProjectForm) { f.Name = "" }, "name", RuleRequired, ""},
		{"blank name", func(f *ProjectForm) { f.Name = "    " }, "name", RuleRequired, ""},
		{"short name", func(f *ProjectForm) { f.Name = " ab " }, "name", RuleMinLength, "3"},
		{"long name", func(f *ProjectForm) { f.Name = Text(strings.Repeat("x", 101)) }, "name", RuleMaxLength, "100"},
		{"long description", func(f *ProjectForm) { f.Description = Text(strings.Repeat("d", 1001)) }, "description", RuleMaxLength, "1000"},
		{"bad start", func(f *ProjectForm) { f.StartDate = "03/01/2024" }, "startDate", RuleDate, ""},
		{"bad end", func(f *ProjectForm) { f.EndDate = "2024-13-01" }, "endDate", RuleDate, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validProject()
			tc.edit(&f)

			res, err := v.Check(f)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			vs := res.Fields[tc.field]
			if len(vs) == 0 || vs[0].Rule != tc.rule || vs[0].Param != tc.param {
				t.Fatalf("expected %s(%s) on %s, got %+v", tc.rule, tc.param, tc.field, res)
			}
		})
	}
}

func TestCheck_ValidProject(t *testing.T) {
	f := validProject()
	f.Name = Text(strings.Repeat("x", 100))
	f.Description = Text(strings.Repeat("d", 1000))

	res, err := New().Check(f)
	if err != nil || !res.Valid() {
		t.Fatalf("expected valid form, got %+v err=%v", res, err)
	}
}

func TestCheck_LoginForm(t *testing.T) {
	v := New()
	cases := []struct {
		form  LoginForm
		field string
		rule  Rule
	}{
		{LoginForm{Email: "", Password: "password123"}, "email", RuleRequired},
		{LoginForm{Email: "not-an-email", Password: "password123"}, "email", RuleEmail},
		{LoginForm{Email: "admin@example.com", Password: ""}, "password", RuleRequired},
		{LoginForm{Email: "admin@example.com", Password: "12345"}, "password", RuleMinLength},
	}

	for _, tc := range cases {
		res, err := v.Check(tc.form)
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if !res.Has(tc.field, tc.rule) {
			t.Fatalf("%+v: expected %s on %s, got %+v", tc.form, tc.rule, tc.field, res)
		}
	}

	res, _ := v.Check(LoginForm{Email: "admin@example.com", Password: "password123"})
	if !res.Valid() {
		t.Fatalf("expected valid login form, got %+v", res)
	}
}

func TestValidate_ErrorMatchesDomainSentinel(t *testing.T) {
	err := New().Validate(LoginForm{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *Error
	if !errors.As(err, &ve) || !ve.Result.Has("email", RuleRequired) {
		t.Fatalf("expected *Error with field violations, got %v", err)
	}

	if err := New().Validate(validProject()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCheck_NonStruct(t *testing.T) {
	if _, err := New().Check("nope"); err == nil {
		t.Fatal("expected error for non-struct input")
	}
}

func TestNewProjectForm_Defaults(t *testing.T) {
	f := NewProjectForm(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	if f.StartDate != "2024-01-15" || f.EndDate != "2024-02-15" {
		t.Fatalf("unexpected defaults: %+v", f)
	}
}

func TestProjectForm_SetStartDate(t *testing.T) {
	f := ProjectForm{StartDate: "2024-03-01", EndDate: "2024-03-05"}

	f.SetStartDate("2024-03-03")
	if f.EndDate != "2024-03-05" {
		t.Fatalf("end date should survive, got %q", f.EndDate)
	}

	f.SetStartDate("2024-03-10")
	if f.StartDate != "2024-03-10" || f.EndDate != "" {
		t.Fatalf("expected end date cleared, got %+v", f)
	}
}

func TestProjectForm_Request(t *testing.T) {
	f := ProjectForm{Name: "  Apollo ", Description: " go ", StartDate: "2024-03-01", EndDate: "2024-03-02"}
	req := f.Request()
	if req.Name != "Apollo" || req.Description != "go" || req.StartDate != "2024-03-01" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		field string
		v     Violation
		want  string
	}{
		{"name", Violation{Rule: RuleRequired}, "Name is required"},
		{"name", Violation{Rule: RuleMinLength, Param: "3"}, "Name must be at least 3 characters"},
		{"description", Violation{Rule: RuleMaxLength, Param: "1000"}, "Description must not exceed 1000 characters"},
		{"email", Violation{Rule: RuleEmail}, "Please enter a valid email address"},
		{"password", Violation{Rule: RuleMinLength, Param: "6"}, "Password must be at least 6 characters"},
		{"", Violation{Rule: RuleDateRange}, "End date must be on or after start date"},
	}

	for _, tc := range cases {
		if got := Message(tc.field, tc.v); got != tc.want {
			t.Errorf("Message(%s, %s) = %q, want %q", tc.field, tc.v.Rule, got, tc.want)
		}
	}
}

func TestMessages_GroupsFormLevel(t *testing.T) {
	res := Result{
		Fields: map[string][]Violation{"name": {{Rule: RuleRequired}}},
		Form:   []Violation{{Rule: RuleDateRange}},
	}
	got := Messages(res)
	if got["name"][0] != "Name is required" || got["form"][0] != "End date must be on or after start date" {
		t.Fatalf("unexpected messages: %v", got)
	}
}
