package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
	"github.com/custodia-labs/ghmirror/internal/core/ports/driven"
	"github.com/custodia-labs/ghmirror/internal/core/ports/driving"
	"github.com/custodia-labs/ghmirror/internal/logger"
)

// Ensure MirrorEngine implements the interface.
var _ driving.MirrorService = (*MirrorEngine)(nil)

// MirrorEngine orchestrates lazy mirroring of remote metadata into the
// local store. It is designed for a single sequential flow: one
// logical caller drives all resolution and one fetch is outstanding at
// a time. The check-then-insert sequence is not atomic across calls,
// so concurrent engines over the same store rely on the store's
// natural-key uniqueness constraints to surface races.
type MirrorEngine struct {
	users    driven.UserStore
	projects driven.ProjectStore
	commits  driven.CommitStore
	fetcher  driven.RemoteFetcher

	urlBase   string
	urlBaseV2 string

	mu    sync.Mutex
	stats domain.MirrorStats
}

// NewMirrorEngine creates a mirror engine over the given stores and
// fetcher. urlBase serves user, repository and commit lookups;
// urlBaseV2 serves the legacy email search endpoint.
func NewMirrorEngine(
	users driven.UserStore,
	projects driven.ProjectStore,
	commits driven.CommitStore,
	fetcher driven.RemoteFetcher,
	urlBase, urlBaseV2 string,
) *MirrorEngine {
	return &MirrorEngine{
		users:     users,
		projects:  projects,
		commits:   commits,
		fetcher:   fetcher,
		urlBase:   urlBase,
		urlBaseV2: urlBaseV2,
	}
}

// Stats returns a snapshot of the engine's work counters.
func (e *MirrorEngine) Stats() domain.MirrorStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// EnsureUser makes the user identified by identifier present locally.
// An identifier containing "@" is resolved as an email through the
// legacy search endpoint; anything else is treated as a login name.
// Calling twice with the same identifier fetches from the remote at
// most once.
func (e *MirrorEngine) EnsureUser(ctx context.Context, identifier string) (domain.UserResolution, error) {
	if identifier == "" {
		logger.Warn("user resolution skipped: empty identifier")
		return domain.UserResolution{State: domain.StateUnresolved}, nil
	}
	if domain.IsEmail(identifier) {
		return e.ensureUserByEmail(ctx, identifier)
	}
	return e.ensureUserByLogin(ctx, identifier)
}

// ensureUserByLogin resolves a login name, fetching /users/{login} on
// a local miss. An expected-absence payload still produces a row: the
// requested login is the natural key and every optional field reads as
// empty downstream.
func (e *MirrorEngine) ensureUserByLogin(ctx context.Context, login string) (domain.UserResolution, error) {
	existing, err := e.users.GetByLogin(ctx, login)
	if err == nil {
		return domain.UserResolution{State: domain.StatePresent, ID: existing.ID, Login: login}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserResolution{}, fmt.Errorf("looking up user %s: %w", login, err)
	}

	payload, err := e.fetch(ctx, e.userURL(login))
	if err != nil {
		return domain.UserResolution{}, fmt.Errorf("fetching user %s: %w", login, err)
	}

	user := &domain.User{
		Login:     login,
		Name:      domain.ExtractString(payload, "name"),
		Company:   domain.ExtractString(payload, "company"),
		Email:     domain.ExtractString(payload, "email"),
		Hireable:  domain.ExtractBool(payload, "hireable"),
		Bio:       domain.ExtractString(payload, "bio"),
		Location:  domain.ExtractString(payload, "location"),
		CreatedAt: e.timestamp(payload, "created_at"),
	}

	id, err := e.users.Insert(ctx, user)
	if err != nil {
		return domain.UserResolution{}, fmt.Errorf("inserting user %s: %w", login, err)
	}
	e.countUser()
	logger.Debug("mirrored user %s (id %d)", login, id)

	return domain.UserResolution{State: domain.StateCreated, ID: id, Login: login}, nil
}

// ensureUserByEmail resolves an email address through the legacy
// search endpoint. Email resolution is best-effort: when the remote
// reports no login for the address the user stays unresolved, a
// warning is logged and no row is created.
func (e *MirrorEngine) ensureUserByEmail(ctx context.Context, email string) (domain.UserResolution, error) {
	existing, err := e.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.UserResolution{State: domain.StatePresent, ID: existing.ID, Login: existing.Login}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserResolution{}, fmt.Errorf("looking up email %s: %w", email, err)
	}

	payload, err := e.fetch(ctx, e.emailURL(email))
	if err != nil {
		return domain.UserResolution{}, fmt.Errorf("resolving email %s: %w", email, err)
	}

	login := domain.ExtractString(payload, "user.login")
	if login == "" {
		logger.Warn("no login found for email %s, user left unresolved", email)
		return domain.UserResolution{State: domain.StateUnresolved}, nil
	}

	// The resolved login may already be mirrored under a different
	// address; the login stays the natural key.
	if existing, err := e.users.GetByLogin(ctx, login); err == nil {
		return domain.UserResolution{State: domain.StatePresent, ID: existing.ID, Login: login}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserResolution{}, fmt.Errorf("looking up user %s: %w", login, err)
	}

	// The email endpoint does not report hireable; it defaults false.
	user := &domain.User{
		Login:     login,
		Name:      domain.ExtractString(payload, "user.name"),
		Company:   domain.ExtractString(payload, "user.company"),
		Email:     email,
		Bio:       domain.ExtractString(payload, "user.bio"),
		Location:  domain.ExtractString(payload, "user.location"),
		CreatedAt: e.timestamp(payload, "user.created_at"),
	}

	id, err := e.users.Insert(ctx, user)
	if err != nil {
		return domain.UserResolution{}, fmt.Errorf("inserting user %s: %w", login, err)
	}
	e.countUser()
	logger.Debug("mirrored user %s resolved from %s (id %d)", login, email, id)

	return domain.UserResolution{State: domain.StateCreated, ID: id, Login: login}, nil
}

// EnsureRepo makes the (owner, name) project present locally. The
// owner user is ensured first; a project row never exists without its
// owner row.
func (e *MirrorEngine) EnsureRepo(ctx context.Context, owner, name string) (domain.ProjectResolution, error) {
	ownerRes, err := e.EnsureUser(ctx, owner)
	if err != nil {
		return domain.ProjectResolution{}, err
	}
	if !ownerRes.Resolved() {
		logger.Warn("owner %s unresolved, repository %s not mirrored", owner, name)
		return domain.ProjectResolution{State: domain.StateUnresolved}, nil
	}

	existing, err := e.projects.GetByOwnerAndName(ctx, ownerRes.ID, name)
	if err == nil {
		return domain.ProjectResolution{State: domain.StatePresent, ID: existing.ID}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.ProjectResolution{}, fmt.Errorf("looking up project %s/%s: %w", owner, name, err)
	}

	payload, err := e.fetch(ctx, e.repoURL(owner, name))
	if err != nil {
		return domain.ProjectResolution{}, fmt.Errorf("fetching repo %s/%s: %w", owner, name, err)
	}

	project := &domain.Project{
		URL:         domain.ExtractString(payload, "url"),
		OwnerID:     ownerRes.ID,
		Name:        name,
		Description: domain.ExtractString(payload, "description"),
		Language:    domain.ExtractString(payload, "language"),
		CreatedAt:   e.timestamp(payload, "created_at"),
	}

	id, err := e.projects.Insert(ctx, project)
	if err != nil {
		return domain.ProjectResolution{}, fmt.Errorf("inserting project %s/%s: %w", owner, name, err)
	}
	e.countProject()
	logger.Debug("mirrored project %s/%s (id %d)", owner, name, id)

	return domain.ProjectResolution{State: domain.StateCreated, ID: id}, nil
}

// MirrorCommit makes the commit identified by sha present locally.
// A malformed sha is logged and dropped without any store mutation or
// remote fetch; this is caller error, not system error.
func (e *MirrorEngine) MirrorCommit(ctx context.Context, owner, repo, sha string) (domain.CommitResult, error) {
	if !domain.IsCommitSHA(sha) {
		logger.Warn("dropping commit request: %q is not a 40-character hex sha", sha)
		return domain.CommitResult{State: domain.StateSkipped, SHA: sha}, nil
	}

	ownerRes, err := e.EnsureUser(ctx, owner)
	if err != nil {
		return domain.CommitResult{}, err
	}
	if !ownerRes.Resolved() {
		logger.Warn("owner %s unresolved, commit %s not mirrored", owner, sha)
		return domain.CommitResult{State: domain.StateUnresolved, SHA: sha}, nil
	}
	if _, err := e.EnsureRepo(ctx, owner, repo); err != nil {
		return domain.CommitResult{}, err
	}

	if _, err := e.commits.GetBySHA(ctx, sha); err == nil {
		return domain.CommitResult{State: domain.StatePresent, SHA: sha}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.CommitResult{}, fmt.Errorf("looking up commit %s: %w", sha, err)
	}

	payload, err := e.fetch(ctx, e.commitURL(owner, repo, sha))
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("fetching commit %s: %w", sha, err)
	}

	// Author and committer may be distinct users, and either may stay
	// unresolved when the address cannot be mapped to a login.
	authorRes, err := e.EnsureUser(ctx, domain.ExtractString(payload, "commit.author.email"))
	if err != nil {
		return domain.CommitResult{}, err
	}
	committerRes, err := e.EnsureUser(ctx, domain.ExtractString(payload, "commit.committer.email"))
	if err != nil {
		return domain.CommitResult{}, err
	}

	commit := &domain.Commit{
		SHA:         sha,
		Message:     domain.ExtractString(payload, "commit.message"),
		LoginID:     ownerRes.ID,
		AuthorID:    authorRes.ID,
		CommitterID: committerRes.ID,
	}

	if _, err := e.commits.Insert(ctx, commit); err != nil {
		return domain.CommitResult{}, fmt.Errorf("inserting commit %s: %w", sha, err)
	}
	e.countCommit()
	logger.Debug("mirrored commit %s for %s/%s", sha, owner, repo)

	return domain.CommitResult{State: domain.StateMirrored, SHA: sha}, nil
}

// fetch delegates to the fetcher and counts the request.
func (e *MirrorEngine) fetch(ctx context.Context, url string) (map[string]any, error) {
	payload, err := e.fetcher.Fetch(ctx, url)
	e.mu.Lock()
	e.stats.Requests++
	e.mu.Unlock()
	return payload, err
}

// timestamp extracts a date field and parses it into epoch seconds,
// degrading to zero for missing or unparseable values.
func (e *MirrorEngine) timestamp(payload map[string]any, path string) int64 {
	raw := domain.ExtractString(payload, path)
	if raw == "" {
		return 0
	}
	ts, err := domain.ParseTimestamp(raw)
	if err != nil {
		logger.Debug("ignoring %s: %v", path, err)
		return 0
	}
	return ts
}

func (e *MirrorEngine) userURL(login string) string {
	return e.urlBase + "/users/" + url.PathEscape(login)
}

func (e *MirrorEngine) repoURL(owner, name string) string {
	return e.urlBase + "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
}

func (e *MirrorEngine) commitURL(owner, repo, sha string) string {
	return e.repoURL(owner, repo) + "/commits/" + sha
}

func (e *MirrorEngine) emailURL(email string) string {
	return e.urlBaseV2 + "/user/email/" + url.PathEscape(email)
}

func (e *MirrorEngine) countUser() {
	e.mu.Lock()
	e.stats.UsersAdded++
	e.mu.Unlock()
}

func (e *MirrorEngine) countProject() {
	e.mu.Lock()
	e.stats.ProjectsAdded++
	e.mu.Unlock()
}

func (e *MirrorEngine) countCommit() {
	e.mu.Lock()
	e.stats.CommitsAdded++
	e.mu.Unlock()
}
