// Package validation holds the declarative field and form rules used by the
// login and project forms. Rules are pure functions of the current values.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trackly/project-tracker/internal/core/domain"
)

// Rule identifies a violated constraint.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleEmail     Rule = "email"
	RuleMinLength Rule = "minlength"
	RuleMaxLength Rule = "maxlength"
	RuleDate      Rule = "date"
	RuleDateRange Rule = "dateRange"
)

// tagRules maps validator tags onto rule ids.
var tagRules = map[string]Rule{
	"required":  RuleRequired,
	"email":     RuleEmail,
	"min":       RuleMinLength,
	"max":       RuleMaxLength,
	"datetime":  RuleDate,
	"dateRange": RuleDateRange,
}

// Text is a form string. Rules see it with surrounding whitespace removed.
type Text string

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Violation is one failed rule. Param carries the bound, if any.
type Violation struct {
	Rule  Rule   `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Result lists violations per field (keyed by JSON name) plus form-level ones.
type Result struct {
	Fields map[string][]Violation `json:"fields,omitempty"`
	Form   []Violation            `json:"form,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Fields) == 0 && len(r.Form) == 0
}

// Has reports whether field violates rule. An empty field checks the form.
func (r Result) Has(field string, rule Rule) bool {
	list := r.Form
	if field != "" {
		list = r.Fields[field]
	}
	for _, v := range list {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Result: r}
}

// Error carries a failed Result through error returns.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Result.Fields)+len(e.Result.Form))
	for field, vs := range e.Result.Fields {
		for _, v := range vs {
			parts = append(parts, Message(field, v))
		}
	}
	for _, v := range e.Result.Form {
		parts = append(parts, Message("", v))
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrValidation
}

// Validator evaluates form structs.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(Text).String()
	}, Text(""))
	v.RegisterStructValidation(projectDateRange, ProjectForm{})
	return &Validator{v: v}
}

// Check evaluates form. Only a non-struct argument returns an error.
func (v *Validator) Check(form any) (Result, error) {
	err := v.v.Struct(form)
	if err == nil {
		return Result{}, nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Result{}, err
	}

	var res Result
	for _, fe := range ve {
		rule, ok := tagRules[fe.Tag()]
		if !ok {
			rule = Rule(fe.Tag())
		}
		viol := Violation{Rule: rule}
		if rule == RuleMinLength || rule == RuleMaxLength {
			viol.Param = fe.Param()
		}
		if rule == RuleDateRange {
			res.Form = append(res.Form, viol)
			continue
		}
		if res.Fields == nil {
			res.Fields = make(map[string][]Violation)
		}
		res.Fields[fe.Field()] = append(res.Fields[fe.Field()], viol)
	}
	return res, nil
}

// Validate is Check collapsed into a single error.
func (v *Validator) Validate(form any) error {
	res, err := v.Check(form)
	if err != nil {
		return err
	}
	return res.Err()
}
