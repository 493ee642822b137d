package validation

import "fmt"

var labels = map[string]string{
	"email":       "Email",
	"password":    "Password",
	"name":        "Name",
	"description": "Description",
	"startDate":   "Start date",
	"endDate":     "End date",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// Message renders a violation of field as user-facing text.
func Message(field string, v Violation) string {
	switch v.Rule {
	case RuleRequired:
		return label(field) + " is required"
	case RuleEmail:
		return "Please enter a valid email address"
	case RuleMinLength:
		return fmt.Sprintf("%s must be at least %s characters", label(field), v.Param)
	case RuleMaxLength:
		return fmt.Sprintf("%s must not exceed %s characters", label(field), v.Param)
	case RuleDate:
		return label(field) + " must be a date in YYYY-MM-DD format"
	case RuleDateRange:
		return "End date must be on or after start date"
	default:
		return fmt.Sprintf("%s is invalid", label(field))
	}
}

// Messages renders every violation in r, keyed by field. Form-level
// messages are keyed by "form".
func Messages(r Result) map[string][]string {
	out := make(map[string][]string, len(r.Fields)+1)
	for field, vs := range r.Fields {
		for _, v := range vs {
			out[field] = append(out[field], Message(field, v))
		}
	}
	for _, v := range r.Form {
		out["form"] = append(out["form"], Message("", v))
	}
	return out
}
