package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperengineering/composer/internal/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the SQLite-backed tenant-config draft store.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if necessary) the database at dbPath,
// applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadConfig reads every entity row into one TenantConfig snapshot.
func (s *SQLiteStore) LoadConfig(ctx context.Context) (*types.TenantConfig, error) {
	cfg := types.NewTenantConfig()

	if err := loadCollection(ctx, s.db, "programs", func(id string, data []byte) error {
		var p types.Program
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		cfg.Programs[id] = p
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadCollection(ctx, s.db, "forms", func(id string, data []byte) error {
		var f types.Form
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		cfg.Forms[id] = f
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadCollection(ctx, s.db, "ctas", func(id string, data []byte) error {
		var c types.CTA
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		cfg.CTAs[id] = c
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadCollection(ctx, s.db, "branches", func(id string, data []byte) error {
		var b types.Branch
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		cfg.Branches[id] = b
		return nil
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadCollection streams id/data rows from one entity table.
func loadCollection(ctx context.Context, db *sql.DB, table string, fn func(id string, data []byte) error) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT id, data FROM %s", table))
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("scan %s row: %w", table, err)
		}
		if err := fn(id, data); err != nil {
			return fmt.Errorf("decode %s %q: %w", table, id, err)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) getEntity(ctx context.Context, table, id string, out interface{}) error {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE id = ?", table), id).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s %q: %w", table, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %q: %w", table, id, err)
	}
	return nil
}

func (s *SQLiteStore) putEntity(ctx context.Context, table, id string, entity interface{}) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", table, id, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, table), id, data, now)
	if err != nil {
		return fmt.Errorf("upsert %s %q: %w", table, id, err)
	}
	return nil
}

func (s *SQLiteStore) deleteEntity(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", table, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", table, id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) GetProgram(ctx context.Context, id string) (*types.Program, error) {
	var p types.Program
	if err := s.getEntity(ctx, "programs", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) PutProgram(ctx context.Context, id string, p types.Program) error {
	return s.putEntity(ctx, "programs", id, p)
}

func (s *SQLiteStore) DeleteProgram(ctx context.Context, id string) error {
	return s.deleteEntity(ctx, "programs", id)
}

func (s *SQLiteStore) GetForm(ctx context.Context, id string) (*types.Form, error) {
	var f types.Form
	if err := s.getEntity(ctx, "forms", id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLiteStore) PutForm(ctx context.Context, id string, f types.Form) error {
	return s.putEntity(ctx, "forms", id, f)
}

func (s *SQLiteStore) DeleteForm(ctx context.Context, id string) error {
	return s.deleteEntity(ctx, "forms", id)
}

func (s *SQLiteStore) GetCTA(ctx context.Context, id string) (*types.CTA, error) {
	var c types.CTA
	if err := s.getEntity(ctx, "ctas", id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) PutCTA(ctx context.Context, id string, c types.CTA) error {
	return s.putEntity(ctx, "ctas", id, c)
}

func (s *SQLiteStore) DeleteCTA(ctx context.Context, id string) error {
	return s.deleteEntity(ctx, "ctas", id)
}

func (s *SQLiteStore) GetBranch(ctx context.Context, id string) (*types.Branch, error) {
	var b types.Branch
	if err := s.getEntity(ctx, "branches", id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLiteStore) PutBranch(ctx context.Context, id string, b types.Branch) error {
	return s.putEntity(ctx, "branches", id, b)
}

func (s *SQLiteStore) DeleteBranch(ctx context.Context, id string) error {
	return s.deleteEntity(ctx, "branches", id)
}
