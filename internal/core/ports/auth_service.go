package ports

import (
	"context"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
)

// SessionReader exposes point-in-time session queries. Implementations must
// answer from memory without touching storage.
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUser() *domain.User
	Token() string
}

type AuthService interface {
	SessionReader
	Login(ctx context.Context, email, password string) *async.Future[domain.LoginResponse]
	Logout(ctx context.Context) error
	// Subscribe delivers every session transition until cancel is called.
	Subscribe() (events <-chan domain.SessionEvent, cancel func())
}
