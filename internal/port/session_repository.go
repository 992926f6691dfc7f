package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type SessionRepository interface {
	// Get returns ErrNotFound for unknown or expired sessions
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save stores s if the stored version still equals s.Version (zero for a new
	// session) and returns the session with its version incremented, ErrOptimisticLock otherwise
	Save(ctx context.Context, s domain.Session) (domain.Session, error)

	Delete(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
