package driving

import (
	"context"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

// MirrorService lazily mirrors remote entities into the local store.
// All operations are read-through: the local store is checked first
// and the remote is only consulted on a miss. Each call resolves its
// dependencies bottom-up (users before projects before commits) and
// inserts at most one row per previously-absent entity.
//
// Only fatal remote failures (unexpected status, transport error,
// parse error) are returned as errors; validation failures and
// best-effort email lookups that come up empty are reported through
// the returned outcome values so a mirroring run can continue with
// the next entity.
type MirrorService interface {
	// EnsureUser makes the user identified by a login name or email
	// address present locally, fetching it from the remote if needed.
	EnsureUser(ctx context.Context, identifier string) (domain.UserResolution, error)

	// EnsureRepo makes the (owner, name) project present locally,
	// ensuring the owner user first.
	EnsureRepo(ctx context.Context, owner, name string) (domain.ProjectResolution, error)

	// MirrorCommit makes the commit identified by sha present locally,
	// ensuring the owner, the project and the commit participants
	// first. A sha that is not 40 lowercase hex characters is dropped
	// without any store or remote access.
	MirrorCommit(ctx context.Context, owner, repo, sha string) (domain.CommitResult, error)

	// Stats returns the work counters accumulated by this engine.
	Stats() domain.MirrorStats
}
