package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/persistence"
	"github.com/trackly/project-tracker/internal/core/validation"
)

const keyProjects = "projects"

// ProjectLatency holds the simulated round trip of each project call.
type ProjectLatency struct {
	List   time.Duration
	Create time.Duration
	Mutate time.Duration
}

// DefaultProjectLatency mirrors the delays of the emulated backend.
var DefaultProjectLatency = ProjectLatency{
	List:   800 * time.Millisecond,
	Create: 1200 * time.Millisecond,
	Mutate: 500 * time.Millisecond,
}

// ProjectRepository is CRUD over the project collection stored under a single
// key. Mutations are read-modify-write on the whole collection and are
// serialized by mu. Once issued, a mutation's write is not cancelled with the
// caller's context.
type ProjectRepository struct {
	adapter *persistence.Adapter
	forms   *validation.Validator
	ids     *persistence.IDSequence
	latency ProjectLatency
	now     func() time.Time
	log     zerolog.Logger

	mu sync.Mutex
}

func NewProjectRepository(adapter *persistence.Adapter, latency ProjectLatency, log zerolog.Logger) *ProjectRepository {
	return &ProjectRepository{
		adapter: adapter,
		forms:   validation.New(),
		ids:     persistence.NewIDSequence(time.Now),
		latency: latency,
		now:     time.Now,
		log:     log,
	}
}

func (r *ProjectRepository) List(ctx context.Context) *async.Future[[]domain.Project] {
	return persistence.Request(r.adapter, r.latency.List, http.StatusOK, "Projects retrieved successfully",
		func() ([]domain.Project, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return r.load(ctx)
		})
}

// Create appends a new active project. Duplicate names reject with a
// conflict and leave storage untouched.
func (r *ProjectRepository) Create(ctx context.Context, req domain.CreateProjectRequest) *async.Future[domain.Project] {
	ctx = context.WithoutCancel(ctx)
	return persistence.Request(r.adapter, r.latency.Create, http.StatusCreated, "Project created successfully",
		func() (domain.Project, error) {
			r.mu.Lock()
			defer r.mu.Unlock()

			now := r.now().UTC()
			p := domain.Project{
				Name:        strings.TrimSpace(req.Name),
				Description: req.Description,
				StartDate:   req.StartDate,
				EndDate:     req.EndDate,
				Status:      domain.ProjectActive,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := r.checkFields(p); err != nil {
				return domain.Project{}, err
			}

			projects, err := r.load(ctx)
			if err != nil {
				return domain.Project{}, err
			}
			if nameTaken(projects, p.Name, -1) {
				r.log.Info().Str("name", p.Name).Msg("duplicate project name")
				return domain.Project{}, domain.NewConflictError()
			}

			p.ID = r.ids.Next(maxID(projects))
			if err := r.adapter.Write(ctx, keyProjects, append(projects, p)); err != nil {
				return domain.Project{}, err
			}
			r.log.Info().Int64("project_id", p.ID).Str("name", p.Name).Msg("project created")
			return p, nil
		})
}

// Update merges patch over the project with id. The merged record must pass
// the project form rules, and a new name is checked for duplicates against
// every other project.
func (r *ProjectRepository) Update(ctx context.Context, id int64, patch domain.ProjectPatch) *async.Future[domain.Project] {
	ctx = context.WithoutCancel(ctx)
	return persistence.Request(r.adapter, r.latency.Mutate, http.StatusOK, "Project updated successfully",
		func() (domain.Project, error) {
			r.mu.Lock()
			defer r.mu.Unlock()

			projects, err := r.load(ctx)
			if err != nil {
				return domain.Project{}, err
			}
			idx := indexOf(projects, id)
			if idx < 0 {
				return domain.Project{}, notFound(id)
			}

			p := projects[idx]
			if patch.Name != nil {
				p.Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Description != nil {
				p.Description = *patch.Description
			}
			if patch.StartDate != nil {
				p.StartDate = *patch.StartDate
			}
			if patch.EndDate != nil {
				p.EndDate = *patch.EndDate
			}
			if patch.Status != nil {
				if !patch.Status.Valid() {
					return domain.Project{}, domain.NewValidationError(fmt.Sprintf("Unknown status %q", *patch.Status))
				}
				p.Status = *patch.Status
			}
			if err := r.checkFields(p); err != nil {
				return domain.Project{}, err
			}
			if patch.Name != nil && nameTaken(projects, p.Name, id) {
				return domain.Project{}, domain.NewConflictError()
			}
			p.UpdatedAt = r.now().UTC()

			updated := slices.Clone(projects)
			updated[idx] = p
			if err := r.adapter.Write(ctx, keyProjects, updated); err != nil {
				return domain.Project{}, err
			}
			r.log.Info().Int64("project_id", id).Msg("project updated")
			return p, nil
		})
}

// Delete removes the project with id and resolves with the removed record.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) *async.Future[domain.Project] {
	ctx = context.WithoutCancel(ctx)
	return persistence.Request(r.adapter, r.latency.Mutate, http.StatusOK, "Project deleted successfully",
		func() (domain.Project, error) {
			r.mu.Lock()
			defer r.mu.Unlock()

			projects, err := r.load(ctx)
			if err != nil {
				return domain.Project{}, err
			}
			idx := indexOf(projects, id)
			if idx < 0 {
				return domain.Project{}, notFound(id)
			}

			removed := projects[idx]
			if err := r.adapter.Write(ctx, keyProjects, slices.Delete(slices.Clone(projects), idx, idx+1)); err != nil {
				return domain.Project{}, err
			}
			r.log.Info().Int64("project_id", id).Msg("project deleted")
			return removed, nil
		})
}

// load returns the stored collection, empty on first use or when the stored
// value is malformed.
func (r *ProjectRepository) load(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if _, err := r.adapter.Read(ctx, keyProjects, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// checkFields applies the project form rules to p. Dates must be calendar
// dates in domain.DateLayout with the end not before the start.
func (r *ProjectRepository) checkFields(p domain.Project) error {
	return r.forms.Validate(validation.ProjectForm{
		Name:        validation.Text(p.Name),
		Description: validation.Text(p.Description),
		StartDate:   validation.Text(p.StartDate),
		EndDate:     validation.Text(p.EndDate),
	})
}

func nameTaken(projects []domain.Project, name string, except int64) bool {
	key := domain.NormalizeName(name)
	return slices.ContainsFunc(projects, func(p domain.Project) bool {
		return p.ID != except && domain.NormalizeName(p.Name) == key
	})
}

func indexOf(projects []domain.Project, id int64) int {
	return slices.IndexFunc(projects, func(p domain.Project) bool { return p.ID == id })
}

func maxID(projects []domain.Project) int64 {
	var m int64
	for _, p := range projects {
		m = max(m, p.ID)
	}
	return m
}

func notFound(id int64) error {
	return domain.NewNotFoundError(fmt.Sprintf("Project %d not found", id))
}
