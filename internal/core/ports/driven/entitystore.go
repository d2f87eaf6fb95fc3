package driven

import (
	"context"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

// UserStore persists mirrored users. Lookups return domain.ErrNotFound
// on a miss so the engine can distinguish absence from store failure.
type UserStore interface {
	// GetByLogin retrieves a user by login name (natural key).
	GetByLogin(ctx context.Context, login string) (*domain.User, error)

	// GetByEmail retrieves a user by email address. When several rows
	// share an address the oldest row wins.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Insert writes a new user row and returns its identifier.
	// Inserting a login that already exists fails.
	Insert(ctx context.Context, user *domain.User) (int64, error)
}

// ProjectStore persists mirrored repositories.
type ProjectStore interface {
	// GetByOwnerAndName retrieves a project by its natural key.
	GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*domain.Project, error)

	// Insert writes a new project row and returns its identifier.
	Insert(ctx context.Context, project *domain.Project) (int64, error)
}

// CommitStore persists mirrored commits.
type CommitStore interface {
	// GetBySHA retrieves a commit by hash (natural key).
	GetBySHA(ctx context.Context, sha string) (*domain.Commit, error)

	// Insert writes a new commit row and returns its identifier.
	// Zero author or committer references are stored as NULL.
	Insert(ctx context.Context, commit *domain.Commit) (int64, error)
}

// RunStore persists run accounting records.
type RunStore interface {
	// Save writes a completed run record.
	Save(ctx context.Context, run *domain.Run) error

	// ListRecent returns up to limit runs, most recent first.
	ListRecent(ctx context.Context, limit int) ([]domain.Run, error)
}
