package ports

import (
	"context"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
)

// ProjectRepository defines the emulated CRUD endpoints for projects.
type ProjectRepository interface {
	List(ctx context.Context) *async.Future[[]domain.Project]
	Create(ctx context.Context, req domain.CreateProjectRequest) *async.Future[domain.Project]
	Update(ctx context.Context, id int64, patch domain.ProjectPatch) *async.Future[domain.Project]
	// Delete resolves with the removed project.
	Delete(ctx context.Context, id int64) *async.Future[domain.Project]
}
