package domain

import "time"

// ResolutionState describes the terminal state of an ensure/mirror
// operation for a single entity.
type ResolutionState string

const (
	// StatePresent means the entity was already in the local store;
	// no remote fetch was made.
	StatePresent ResolutionState = "present"

	// StateCreated means the entity was fetched from the remote and
	// inserted.
	StateCreated ResolutionState = "created"

	// StateUnresolved means a best-effort lookup (email resolution)
	// yielded no usable identity. No row was created and no error was
	// raised; this is a soft failure.
	StateUnresolved ResolutionState = "unresolved"

	// StateSkipped means the request was rejected by input validation
	// (malformed sha) before any store or remote access.
	StateSkipped ResolutionState = "skipped"

	// StateMirrored means a commit was fetched and inserted along with
	// any missing participants.
	StateMirrored ResolutionState = "mirrored"
)

// UserResolution is the observable outcome of an EnsureUser call.
// ID is only meaningful when Resolved reports true.
type UserResolution struct {
	State ResolutionState
	ID    int64
	Login string
}

// Resolved reports whether the user now exists in the local store.
func (r UserResolution) Resolved() bool {
	return r.State == StatePresent || r.State == StateCreated
}

// ProjectResolution is the observable outcome of an EnsureRepo call.
type ProjectResolution struct {
	State ResolutionState
	ID    int64
}

// Resolved reports whether the project now exists in the local store.
func (r ProjectResolution) Resolved() bool {
	return r.State == StatePresent || r.State == StateCreated
}

// CommitResult is the observable outcome of a MirrorCommit call.
type CommitResult struct {
	State ResolutionState
	SHA   string
}

// MirrorStats counts the work performed by an engine instance since it
// was created. The remote request counter includes fetches whose
// result was an expected-absence payload.
type MirrorStats struct {
	Requests      int
	UsersAdded    int
	ProjectsAdded int
	CommitsAdded  int
}

// Run records one CLI invocation of the mirror engine for the run
// accounting table.
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Requests      int
	UsersAdded    int
	ProjectsAdded int
	CommitsAdded  int
}
