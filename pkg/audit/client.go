// Copyright 2026 Chainborn
//
// Audit Trail Store — durable, append-only record of terminal validation
// decisions. Grounded on pkg/database/client.go's connection pooling,
// functional-options construction, and embed.FS migration runner; this is
// the same shape, pointed at a new schema.
package audit

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Client wraps a pooled Postgres connection used by the audit trail.
type Client struct {
	db     *sql.DB
	logger *log.Logger
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient opens a connection pool against dsn and verifies it is alive.
func NewClient(dsn string, opts ...ClientOption) (*Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("audit: database URL cannot be empty")
	}

	c := &Client{logger: log.New(log.Writer(), "[Audit] ", log.LstdFlags)}
	for _, opt := range opts {
		opt(c)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: ping database: %w", err)
	}

	c.db = db
	return c, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// migration is a single embedded schema migration file.
type migration struct {
	Version string
	SQL     string
}

// MigrateUp applies every pending migration under migrations/, tracked in
// a schema_migrations table the migration SQL itself maintains.
func (c *Client) MigrateUp(ctx context.Context) error {
	migrations, err := c.loadMigrations()
	if err != nil {
		return fmt.Errorf("audit: load migrations: %w", err)
	}

	applied, err := c.appliedMigrations(ctx)
	if err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("audit: list applied migrations: %w", err)
		}
		applied = make(map[string]bool)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		c.logger.Printf("applying migration %s", m.Version)
		if err := c.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("audit: apply migration %s: %w", m.Version, err)
		}
	}
	return nil
}

func (c *Client) loadMigrations() ([]migration, error) {
	var migrations []migration

	err := fs.WalkDir(migrationsFS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		content, err := migrationsFS.ReadFile(path)
		if err != nil {
			return err
		}
		version := strings.TrimSuffix(d.Name(), ".sql")
		migrations = append(migrations, migration{Version: version, SQL: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

func (c *Client) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (c *Client) applyMigration(ctx context.Context, m migration) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("execute migration sql: %w", err)
	}
	return tx.Commit()
}
