package domain

import (
	"strings"
	"time"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

// DateLayout is the calendar-date format used for project start and end dates.
const DateLayout = "2006-01-02"

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Project is a tracked project. The JSON layout matches the persisted
// collection stored under the "projects" key.
type Project struct {
	ID          int64         `json:"id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`
	Status      ProjectStatus `json:"status,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitzero"`
	UpdatedAt   time.Time     `json:"updatedAt,omitzero"`
}

// CreateProjectRequest carries the user-supplied fields of a new project.
type CreateProjectRequest struct {
	Name        string
	Description string
	StartDate   string
	EndDate     string
}

// ProjectPatch holds the optional fields of an update. Nil means unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	StartDate   *string
	EndDate     *string
	Status      *ProjectStatus
}

// NormalizeName is the key under which project names must be unique.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DatesOrdered reports whether start <= end. Missing or unparsable dates are
// not compared and count as ordered.
func DatesOrdered(start, end string) bool {
	if start == "" || end == "" {
		return true
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return true
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return true
	}
	return !s.After(e)
}
