package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"time"

	"realestate/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/oops"
)

// schema is applied by EnsureSchema. Values in user_settings are stored as
// text so flags and counters share one table.
const schema = `
CREATE TABLE IF NOT EXISTS user_settings (
	user_id    TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, key)
);

CREATE TABLE IF NOT EXISTS documents (
	id         TEXT        PRIMARY KEY,
	user_id    TEXT        NOT NULL,
	title      TEXT        NOT NULL,
	type       TEXT        NOT NULL,
	size       TEXT        NOT NULL,
	date       TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS documents_user_idx ON documents (user_id, created_at);

CREATE TABLE IF NOT EXISTS search_logs (
	id           BIGSERIAL   PRIMARY KEY,
	user_id      TEXT        NOT NULL,
	query        TEXT        NOT NULL,
	result_count INTEGER     NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS search_logs_user_idx ON search_logs (user_id, created_at DESC);
`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, oops.In("repository").Wrapf(err, "failed to connect to database")
	}
	return openPool(db, maxConn, maxIdleConn)
}

// openPool tunes db and checks it is reachable. db is closed on failure.
func openPool(db *sqlx.DB, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, oops.In("repository").Wrapf(err, "failed to ping database")
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates missing tables
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return oops.In("repository").Wrapf(err, "failed to apply schema")
	}
	return nil
}

func (r *PostgresRepository) getValue(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM user_settings WHERE user_id = $1 AND key = $2`
	err := r.db.GetContext(ctx, &value, query, userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.In("repository").With("key", key).Wrapf(err, "failed to read setting")
	}
	return value, true, nil
}

func (r *PostgresRepository) setValue(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO user_settings (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return oops.In("repository").With("key", key).Wrapf(err, "failed to write setting")
	}
	return nil
}

// GetBool returns a flag, or def when it was never written
func (r *PostgresRepository) GetBool(ctx context.Context, userID, key string, def bool) (bool, error) {
	value, ok, err := r.getValue(ctx, userID, key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def, oops.In("repository").With("key", key).Wrapf(err, "setting is not a flag")
	}
	return b, nil
}

// SetBool writes a flag
func (r *PostgresRepository) SetBool(ctx context.Context, userID, key string, value bool) error {
	return r.setValue(ctx, userID, key, strconv.FormatBool(value))
}

// GetInt returns a counter, or def when it was never written
func (r *PostgresRepository) GetInt(ctx context.Context, userID, key string, def int) (int, error) {
	value, ok, err := r.getValue(ctx, userID, key)
	if err != nil || !ok {
		return def, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def, oops.In("repository").With("key", key).Wrapf(err, "setting is not a counter")
	}
	return n, nil
}

// Increment adds one to a counter that starts at def and returns the new
// value
func (r *PostgresRepository) Increment(ctx context.Context, userID, key string, def int) (int, error) {
	query := `
		INSERT INTO user_settings (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE
			SET value = (user_settings.value::integer + 1)::text, updated_at = NOW()
		RETURNING value
	`
	var value string
	if err := r.db.GetContext(ctx, &value, query, userID, key, strconv.Itoa(def+1)); err != nil {
		return 0, oops.In("repository").With("key", key).Wrapf(err, "failed to increment counter")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, oops.In("repository").With("key", key).Wrapf(err, "setting is not a counter")
	}
	return n, nil
}

// GetStrings returns the stored values of keys. Keys never written are
// absent from the map.
func (r *PostgresRepository) GetStrings(ctx context.Context, userID string, keys []string) (map[string]string, error) {
	query := `SELECT key, value FROM user_settings WHERE user_id = $1 AND key = ANY($2)`
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID, pq.Array(keys)); err != nil {
		return nil, oops.In("repository").Wrapf(err, "failed to read settings")
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// SetStrings writes all values in one transaction
func (r *PostgresRepository) SetStrings(ctx context.Context, userID string, values map[string]string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return oops.In("repository").Wrapf(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO user_settings (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	for _, key := range sortedKeys(values) {
		if _, err := tx.ExecContext(ctx, query, userID, key, values[key]); err != nil {
			return oops.In("repository").With("key", key).Wrapf(err, "failed to write setting")
		}
	}
	if err := tx.Commit(); err != nil {
		return oops.In("repository").Wrapf(err, "failed to commit settings")
	}
	return nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListDocuments returns a user's documents, newest first
func (r *PostgresRepository) ListDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	query := `
		SELECT id, user_id, title, type, size, date, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var docs []model.Document
	if err := r.db.SelectContext(ctx, &docs, query, userID); err != nil {
		return nil, oops.In("repository").Wrapf(err, "failed to list documents")
	}
	return docs, nil
}

// CreateDocument stores document metadata
func (r *PostgresRepository) CreateDocument(ctx context.Context, doc *model.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO documents (id, user_id, title, type, size, date, created_at)
		VALUES (:id, :user_id, :title, :type, :size, :date, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return oops.In("repository").With("document_id", doc.ID).Wrapf(err, "failed to create document")
	}
	return nil
}

// LogSearch records a search query
func (r *PostgresRepository) LogSearch(ctx context.Context, userID, query string, resultCount int) error {
	logQuery := `
		INSERT INTO search_logs (user_id, query, result_count)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, logQuery, userID, query, resultCount); err != nil {
		return oops.In("repository").Wrapf(err, "failed to log search")
	}
	return nil
}

// RecentSearches returns the latest searches of a user, newest first
func (r *PostgresRepository) RecentSearches(ctx context.Context, userID string, limit int) ([]model.SearchHistoryItem, error) {
	query := `
		SELECT id, user_id, query, result_count, created_at
		FROM search_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	var items []model.SearchHistoryItem
	if err := r.db.SelectContext(ctx, &items, query, userID, limit); err != nil {
		return nil, oops.In("repository").Wrapf(err, "failed to fetch search history")
	}
	return items, nil
}
