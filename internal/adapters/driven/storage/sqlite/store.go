package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ghmirror/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ghmirror/internal/core/domain"
	"github.com/custodia-labs/ghmirror/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to all entity
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ghmirror/data/mirror.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ghmirror", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mirror.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// UserStore returns a UserStore interface backed by this store.
func (s *Store) UserStore() driven.UserStore {
	return &userStore{store: s}
}

// ProjectStore returns a ProjectStore interface backed by this store.
func (s *Store) ProjectStore() driven.ProjectStore {
	return &projectStore{store: s}
}

// CommitStore returns a CommitStore interface backed by this store.
func (s *Store) CommitStore() driven.CommitStore {
	return &commitStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// isUniqueViolation reports whether err is a natural-key constraint
// violation from the driver.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullID converts a zero identifier to NULL for optional references.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// ==================== User Store ====================

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

const userColumns = "id, login, name, company, email, hireable, bio, location, created_at"

// GetByLogin retrieves a user by login name.
func (s *userStore) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE login = ?", login)
	return scanUser(row)
}

// GetByEmail retrieves a user by email address. The oldest row wins
// when several share an address.
func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? ORDER BY id LIMIT 1", email)
	return scanUser(row)
}

// Insert writes a new user row.
func (s *userStore) Insert(ctx context.Context, user *domain.User) (int64, error) {
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO users (login, name, company, email, hireable, bio, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.Login, user.Name, user.Company, user.Email,
		user.Hireable, user.Bio, user.Location, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %s: %w", user.Login, domain.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading user id: %w", err)
	}
	user.ID = id
	return id, nil
}

// scanUser scans a single user row, mapping sql.ErrNoRows to
// domain.ErrNotFound.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Login, &user.Name, &user.Company,
		&user.Email, &user.Hireable, &user.Bio, &user.Location, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// ==================== Project Store ====================

// projectStore implements driven.ProjectStore.
type projectStore struct {
	store *Store
}

var _ driven.ProjectStore = (*projectStore)(nil)

// GetByOwnerAndName retrieves a project by its natural key.
func (s *projectStore) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*domain.Project, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, owner, name, description, language, created_at
		FROM projects WHERE owner = ? AND name = ?
	`, ownerID, name)

	var project domain.Project
	if err := row.Scan(&project.ID, &project.URL, &project.OwnerID,
		&project.Name, &project.Description, &project.Language, &project.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return &project, nil
}

// Insert writes a new project row.
func (s *projectStore) Insert(ctx context.Context, project *domain.Project) (int64, error) {
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO projects (url, owner, name, description, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, project.URL, project.OwnerID, project.Name,
		project.Description, project.Language, project.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("project %s: %w", project.Name, domain.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("inserting project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading project id: %w", err)
	}
	project.ID = id
	return id, nil
}

// ==================== Commit Store ====================

// commitStore implements driven.CommitStore.
type commitStore struct {
	store *Store
}

var _ driven.CommitStore = (*commitStore)(nil)

// GetBySHA retrieves a commit by hash.
func (s *commitStore) GetBySHA(ctx context.Context, sha string) (*domain.Commit, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, sha, message, login_id, author_id, committer_id
		FROM commits WHERE sha = ?
	`, sha)

	var commit domain.Commit
	var authorID, committerID sql.NullInt64
	if err := row.Scan(&commit.ID, &commit.SHA, &commit.Message,
		&commit.LoginID, &authorID, &committerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning commit: %w", err)
	}
	commit.AuthorID = authorID.Int64
	commit.CommitterID = committerID.Int64
	return &commit, nil
}

// Insert writes a new commit row. Unresolved participants (zero ids)
// are stored as NULL.
func (s *commitStore) Insert(ctx context.Context, commit *domain.Commit) (int64, error) {
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO commits (sha, message, login_id, author_id, committer_id)
		VALUES (?, ?, ?, ?, ?)
	`, commit.SHA, commit.Message, commit.LoginID,
		nullID(commit.AuthorID), nullID(commit.CommitterID))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("commit %s: %w", commit.SHA, domain.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("inserting commit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading commit id: %w", err)
	}
	commit.ID = id
	return id, nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save writes a completed run record.
func (s *runStore) Save(ctx context.Context, run *domain.Run) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO mirror_runs (id, started_at, finished_at, requests, users_added, projects_added, commits_added)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt,
		run.Requests, run.UsersAdded, run.ProjectsAdded, run.CommitsAdded)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, most recent first.
func (s *runStore) ListRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, requests, users_added, projects_added, commits_added
		FROM mirror_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.Requests, &run.UsersAdded, &run.ProjectsAdded, &run.CommitsAdded); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}
