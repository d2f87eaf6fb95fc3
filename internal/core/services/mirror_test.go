package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghmirror/internal/core/domain"
)

const (
	testBase   = "https://api.example.test"
	testBaseV2 = "https://legacy.example.test"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users  []*domain.User
	nextID int64
}

func (s *fakeUserStore) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) Insert(_ context.Context, user *domain.User) (int64, error) {
	for _, u := range s.users {
		if u.Login == user.Login {
			return 0, domain.ErrAlreadyExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, user)
	return user.ID, nil
}

func (s *fakeUserStore) hasID(id int64) bool {
	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// fakeProjectStore is an in-memory ProjectStore that verifies the
// owner user row exists before accepting an insert.
type fakeProjectStore struct {
	t        *testing.T
	users    *fakeUserStore
	projects []*domain.Project
	nextID   int64
}

func (s *fakeProjectStore) GetByOwnerAndName(_ context.Context, ownerID int64, name string) (*domain.Project, error) {
	for _, p := range s.projects {
		if p.OwnerID == ownerID && p.Name == name {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeProjectStore) Insert(_ context.Context, project *domain.Project) (int64, error) {
	require.True(s.t, s.users.hasID(project.OwnerID),
		"project %s inserted before its owner user", project.Name)
	s.nextID++
	project.ID = s.nextID
	s.projects = append(s.projects, project)
	return project.ID, nil
}

// fakeCommitStore is an in-memory CommitStore that verifies referenced
// user rows exist before accepting an insert.
type fakeCommitStore struct {
	t       *testing.T
	users   *fakeUserStore
	commits []*domain.Commit
	nextID  int64
}

func (s *fakeCommitStore) GetBySHA(_ context.Context, sha string) (*domain.Commit, error) {
	for _, c := range s.commits {
		if c.SHA == sha {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeCommitStore) Insert(_ context.Context, commit *domain.Commit) (int64, error) {
	require.True(s.t, s.users.hasID(commit.LoginID), "commit inserted before its login user")
	if commit.AuthorID != 0 {
		require.True(s.t, s.users.hasID(commit.AuthorID), "commit inserted before its author")
	}
	if commit.CommitterID != 0 {
		require.True(s.t, s.users.hasID(commit.CommitterID), "commit inserted before its committer")
	}
	s.nextID++
	commit.ID = s.nextID
	s.commits = append(s.commits, commit)
	return commit.ID, nil
}

// fakeFetcher serves canned payloads keyed by URL and counts fetches.
type fakeFetcher struct {
	payloads map[string]map[string]any
	errs     map[string]error
	calls    map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		payloads: make(map[string]map[string]any),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (map[string]any, error) {
	f.calls[url]++
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if payload, ok := f.payloads[url]; ok {
		return payload, nil
	}
	// Unknown entity: the remote models this as a normal response.
	return map[string]any{"error": "Not Found"}, nil
}

func (f *fakeFetcher) totalCalls() int {
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// testEngine bundles the engine with its fakes.
type testEngine struct {
	engine   *MirrorEngine
	users    *fakeUserStore
	projects *fakeProjectStore
	commits  *fakeCommitStore
	fetcher  *fakeFetcher
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	users := &fakeUserStore{}
	projects := &fakeProjectStore{t: t, users: users}
	commits := &fakeCommitStore{t: t, users: users}
	fetcher := newFakeFetcher()

	return &testEngine{
		engine:   NewMirrorEngine(users, projects, commits, fetcher, testBase, testBaseV2),
		users:    users,
		projects: projects,
		commits:  commits,
		fetcher:  fetcher,
	}
}

func (te *testEngine) addUserFixture(login string, fields map[string]any) {
	payload := map[string]any{"login": login}
	for k, v := range fields {
		payload[k] = v
	}
	te.fetcher.payloads[testBase+"/users/"+login] = payload
}

func (te *testEngine) addEmailFixture(email, login string) {
	te.fetcher.payloads[testBaseV2+"/user/email/"+email] = map[string]any{
		"user": map[string]any{"login": login, "name": "Resolved " + login},
	}
}

func (te *testEngine) addRepoFixture(owner, name string, fields map[string]any) {
	payload := map[string]any{"name": name}
	for k, v := range fields {
		payload[k] = v
	}
	te.fetcher.payloads[testBase+"/repos/"+owner+"/"+name] = payload
}

func (te *testEngine) addCommitFixture(owner, repo, sha, message, authorEmail, committerEmail string) {
	te.fetcher.payloads[testBase+"/repos/"+owner+"/"+repo+"/commits/"+sha] = map[string]any{
		"sha": sha,
		"commit": map[string]any{
			"message":   message,
			"author":    map[string]any{"email": authorEmail},
			"committer": map[string]any{"email": committerEmail},
		},
	}
}

// ==================== EnsureUser ====================

func TestEnsureUser_ByLogin_FetchesOnceAndInserts(t *testing.T) {
	te := newTestEngine(t)
	te.addUserFixture("alice", map[string]any{
		"name":       "Alice",
		"company":    "Acme",
		"email":      "alice@example.com",
		"hireable":   true,
		"bio":        "builds things",
		"location":   "Lisbon",
		"created_at": "2008-02-28T10:41:03Z",
	})
	ctx := context.Background()

	res, err := te.engine.EnsureUser(ctx, "alice")

	require.NoError(t, err)
	assert.Equal(t, domain.StateCreated, res.State)
	require.Len(t, te.users.users, 1)

	user := te.users.users[0]
	assert.Equal(t, "alice", user.Login)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "Acme", user.Company)
	assert.True(t, user.Hireable)
	assert.Equal(t, int64(1204195263), user.CreatedAt)

	// Second call is a local hit: no additional fetch, no second row.
	res2, err := te.engine.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, res2.State)
	assert.Equal(t, res.ID, res2.ID)
	assert.Len(t, te.users.users, 1)
	assert.Equal(t, 1, te.fetcher.calls[testBase+"/users/alice"])
}

// An unknown login still produces a row: the remote's error payload
// reads as empty fields and the requested login is the natural key.
func TestEnsureUser_ByLogin_AbsentOnRemote(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	res, err := te.engine.EnsureUser(ctx, "ghost")

	require.NoError(t, err)
	assert.Equal(t, domain.StateCreated, res.State)
	require.Len(t, te.users.users, 1)
	assert.Equal(t, "ghost", te.users.users[0].Login)
	assert.Empty(t, te.users.users[0].Name)
	assert.False(t, te.users.users[0].Hireable)
}

func TestEnsureUser_ByEmail_Resolved(t *testing.T) {
	te := newTestEngine(t)
	te.addEmailFixture("bob@example.com", "bob")
	ctx := context.Background()

	res, err := te.engine.EnsureUser(ctx, "bob@example.com")

	require.NoError(t, err)
	assert.Equal(t, domain.StateCreated, res.State)
	assert.Equal(t, "bob", res.Login)
	require.Len(t, te.users.users, 1)
	assert.Equal(t, "bob@example.com", te.users.users[0].Email)
	// The email endpoint does not report hireable.
	assert.False(t, te.users.users[0].Hireable)

	res2, err := te.engine.EnsureUser(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, res2.State)
	assert.Equal(t, 1, te.fetcher.calls[testBaseV2+"/user/email/bob@example.com"])
}

func TestEnsureUser_ByEmail_Unresolved(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	// No fixture: the remote answers with an error payload lacking
	// user.login. Soft failure: no row, no error.
	res, err := te.engine.EnsureUser(ctx, "nobody@example.com")

	require.NoError(t, err)
	assert.Equal(t, domain.StateUnresolved, res.State)
	assert.False(t, res.Resolved())
	assert.Empty(t, te.users.users)
}

func TestEnsureUser_ByEmail_LoginAlreadyMirrored(t *testing.T) {
	te := newTestEngine(t)
	te.addUserFixture("carol", map[string]any{"email": "old@example.com"})
	te.addEmailFixture("new@example.com", "carol")
	ctx := context.Background()

	first, err := te.engine.EnsureUser(ctx, "carol")
	require.NoError(t, err)

	// A different address resolving to the same login reuses the row;
	// the login stays unique.
	res, err := te.engine.EnsureUser(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, res.State)
	assert.Equal(t, first.ID, res.ID)
	assert.Len(t, te.users.users, 1)
}

func TestEnsureUser_EmptyIdentifier(t *testing.T) {
	te := newTestEngine(t)

	res, err := te.engine.EnsureUser(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, domain.StateUnresolved, res.State)
	assert.Zero(t, te.fetcher.totalCalls())
}

func TestEnsureUser_FatalRemoteErrorPropagates(t *testing.T) {
	te := newTestEngine(t)
	te.fetcher.errs[testBase+"/users/alice"] = errors.New("connection refused")

	_, err := te.engine.EnsureUser(context.Background(), "alice")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice")
	assert.Empty(t, te.users.users)
}

// ==================== EnsureRepo ====================

func TestEnsureRepo_EnsuresOwnerFirst(t *testing.T) {
	te := newTestEngine(t)
	te.addUserFixture("alice", nil)
	te.addRepoFixture("alice", "proj", map[string]any{
		"url":         testBase + "/repos/alice/proj",
		"description": "a project",
		"language":    "Go",
		"created_at":  "2010-04-12T09:00:00Z",
	})
	ctx := context.Background()

	res, err := te.engine.EnsureRepo(ctx, "alice", "proj")

	require.NoError(t, err)
	assert.Equal(t, domain.StateCreated, res.State)
	require.Len(t, te.projects.projects, 1)

	project := te.projects.projects[0]
	assert.Equal(t, "proj", project.Name)
	assert.Equal(t, "Go", project.Language)
	assert.Equal(t, te.users.users[0].ID, project.OwnerID)

	// Idempotent: one fetch per entity, one row per entity.
	res2, err := te.engine.EnsureRepo(ctx, "alice", "proj")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, res2.State)
	assert.Len(t, te.projects.projects, 1)
	assert.Equal(t, 2, te.fetcher.totalCalls())
}

func TestEnsureRepo_AbsentOnRemote(t *testing.T) {
	te := newTestEngine(t)
	te.addUserFixture("alice", nil)
	ctx := context.Background()

	// The repo fetch yields an error payload; the engine does not
	// branch on it and the row carries empty optional fields.
	res, err := te.engine.EnsureRepo(ctx, "alice", "missing")

	require.NoError(t, err)
	assert.Equal(t, domain.StateCreated, res.State)
	require.Len(t, te.projects.projects, 1)
	assert.Empty(t, te.projects.projects[0].Description)
}

// ==================== MirrorCommit ====================

func validSHA() string {
	return strings.Repeat("a", 40)
}

func TestMirrorCommit_FullResolution(t *testing.T) {
	te := newTestEngine(t)
	sha := validSHA()
	te.addUserFixture("alice", map[string]any{"email": "alice@example.com"})
	te.addRepoFixture("alice", "proj", nil)
	te.addCommitFixture("alice", "proj", sha, "initial import", "bob@example.com", "carol@example.com")
	te.addEmailFixture("bob@example.com", "bob")
	te.addEmailFixture("carol@example.com", "carol")
	ctx := context.Background()

	res, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)

	require.NoError(t, err)
	assert.Equal(t, domain.StateMirrored, res.State)
	require.Len(t, te.commits.commits, 1)

	commit := te.commits.commits[0]
	assert.Equal(t, sha, commit.SHA)
	assert.Equal(t, "initial import", commit.Message)
	assert.NotZero(t, commit.AuthorID)
	assert.NotZero(t, commit.CommitterID)
	assert.NotEqual(t, commit.AuthorID, commit.CommitterID)
	// alice + bob + carol
	assert.Len(t, te.users.users, 3)

	// Second call finds the commit locally.
	res2, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, res2.State)
	assert.Len(t, te.commits.commits, 1)
	assert.Equal(t, 1, te.fetcher.calls[testBase+"/repos/alice/proj/commits/"+sha])
}

func TestMirrorCommit_AuthorEmailMatchesOwner(t *testing.T) {
	te := newTestEngine(t)
	sha := validSHA()
	te.addUserFixture("alice", map[string]any{"email": "alice@example.com"})
	te.addRepoFixture("alice", "proj", nil)
	te.addCommitFixture("alice", "proj", sha, "self commit", "alice@example.com", "alice@example.com")
	ctx := context.Background()

	res, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)

	require.NoError(t, err)
	assert.Equal(t, domain.StateMirrored, res.State)
	// The owner's row is reused through the email lookup.
	assert.Len(t, te.users.users, 1)

	commit := te.commits.commits[0]
	assert.Equal(t, commit.LoginID, commit.AuthorID)
	assert.Equal(t, commit.LoginID, commit.CommitterID)
}

func TestMirrorCommit_UnresolvedParticipants(t *testing.T) {
	te := newTestEngine(t)
	sha := validSHA()
	te.addUserFixture("alice", nil)
	te.addRepoFixture("alice", "proj", nil)
	te.addCommitFixture("alice", "proj", sha, "anonymous", "unknown@example.com", "")
	ctx := context.Background()

	res, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)

	require.NoError(t, err)
	assert.Equal(t, domain.StateMirrored, res.State)
	require.Len(t, te.commits.commits, 1)

	// Both participants stayed unresolved; the commit row still lands
	// with null references.
	commit := te.commits.commits[0]
	assert.Zero(t, commit.AuthorID)
	assert.Zero(t, commit.CommitterID)
	assert.Len(t, te.users.users, 1)
}

func TestMirrorCommit_MalformedSHA(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	for _, sha := range []string{"", "abc", strings.Repeat("A", 40), strings.Repeat("z", 40)} {
		res, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)

		require.NoError(t, err, "sha %q", sha)
		assert.Equal(t, domain.StateSkipped, res.State, "sha %q", sha)
	}

	// Validation failures never reach the store or the remote.
	assert.Zero(t, te.fetcher.totalCalls())
	assert.Empty(t, te.users.users)
	assert.Empty(t, te.commits.commits)
}

func TestMirrorCommit_FatalFetchAborts(t *testing.T) {
	te := newTestEngine(t)
	sha := validSHA()
	te.addUserFixture("alice", nil)
	te.addRepoFixture("alice", "proj", nil)
	te.fetcher.errs[testBase+"/repos/alice/proj/commits/"+sha] = errors.New("bad gateway")
	ctx := context.Background()

	_, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)

	require.Error(t, err)
	assert.Empty(t, te.commits.commits)
}

// ==================== Stats ====================

func TestStats_CountsWork(t *testing.T) {
	te := newTestEngine(t)
	sha := validSHA()
	te.addUserFixture("alice", nil)
	te.addRepoFixture("alice", "proj", nil)
	te.addCommitFixture("alice", "proj", sha, "msg", "bob@example.com", "bob@example.com")
	te.addEmailFixture("bob@example.com", "bob")
	ctx := context.Background()

	_, err := te.engine.MirrorCommit(ctx, "alice", "proj", sha)
	require.NoError(t, err)

	stats := te.engine.Stats()
	assert.Equal(t, 2, stats.UsersAdded)
	assert.Equal(t, 1, stats.ProjectsAdded)
	assert.Equal(t, 1, stats.CommitsAdded)
	assert.Equal(t, te.fetcher.totalCalls(), stats.Requests)
}
