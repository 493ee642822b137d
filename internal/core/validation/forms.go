package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trackly/project-tracker/internal/core/domain"
)

type LoginForm struct {
	Email    Text `json:"email" validate:"required,email"`
	Password Text `json:"password" validate:"required,min=6"`
}

// ProjectForm is the create-project form. EndDate must not precede StartDate.
type ProjectForm struct {
	Name        Text `json:"name" validate:"required,min=3,max=100"`
	Description Text `json:"description" validate:"max=1000"`
	StartDate   Text `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     Text `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// NewProjectForm returns a form starting today and ending a month later.
func NewProjectForm(now time.Time) ProjectForm {
	return ProjectForm{
		StartDate: Text(now.Format(domain.DateLayout)),
		EndDate:   Text(now.AddDate(0, 1, 0).Format(domain.DateLayout)),
	}
}

// SetStartDate changes the start date and clears an end date that would now
// precede it.
func (f *ProjectForm) SetStartDate(start string) {
	f.StartDate = Text(start)
	if start != "" && !domain.DatesOrdered(f.StartDate.String(), f.EndDate.String()) {
		f.EndDate = ""
	}
}

// Request converts the form into a repository request.
func (f ProjectForm) Request() domain.CreateProjectRequest {
	return domain.CreateProjectRequest{
		Name:        f.Name.String(),
		Description: f.Description.String(),
		StartDate:   f.StartDate.String(),
		EndDate:     f.EndDate.String(),
	}
}

func projectDateRange(sl validator.StructLevel) {
	f := sl.Current().Interface().(ProjectForm)
	if !domain.DatesOrdered(f.StartDate.String(), f.EndDate.String()) {
		sl.ReportError(f.EndDate, "endDate", "EndDate", "dateRange", "")
	}
}
