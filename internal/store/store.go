// Package store handles SQLite persistence of saved drills.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typewriter/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when no saved drill matches an id.
var ErrNotFound = errors.New("drill not found")

// ErrAmbiguous is returned when an id prefix matches several drills.
var ErrAmbiguous = errors.New("drill id prefix is ambiguous")

// Store wraps SQLite access for saved drills.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drills (
			id TEXT PRIMARY KEY,
			scheme TEXT NOT NULL,
			title TEXT NOT NULL,
			answer TEXT NOT NULL,
			caption TEXT NOT NULL,
			caption_mode TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_drills_scheme ON drills(scheme);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddDrill stores d under a fresh id and returns the stored record.
func (s *Store) AddDrill(ctx context.Context, d model.SavedDrill) (model.SavedDrill, error) {
	if strings.TrimSpace(d.Answer) == "" {
		return model.SavedDrill{}, fmt.Errorf("drill answer is empty")
	}
	if d.Scheme == "" {
		return model.SavedDrill{}, fmt.Errorf("drill scheme is empty")
	}
	d.ID = uuid.NewString()
	d.CreatedAt = s.now().UTC()
	if d.Title == "" {
		d.Title = d.ID[:8]
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drills (id, scheme, title, answer, caption, caption_mode, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.Scheme,
		d.Title,
		d.Answer,
		d.Caption,
		d.CaptionMode,
		d.Source,
		d.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.SavedDrill{}, fmt.Errorf("insert drill: %w", err)
	}
	return d, nil
}

// ImportDrills stores several drills in one transaction.
func (s *Store) ImportDrills(ctx context.Context, drills []model.SavedDrill) (saved []model.SavedDrill, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO drills (id, scheme, title, answer, caption, caption_mode, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	now := s.now().UTC()
	for i, d := range drills {
		if strings.TrimSpace(d.Answer) == "" || d.Scheme == "" {
			return nil, fmt.Errorf("drill %d (%q) needs a scheme and an answer", i, d.Title)
		}
		d.ID = uuid.NewString()
		d.CreatedAt = now
		if d.Title == "" {
			d.Title = d.ID[:8]
		}
		if _, err = stmt.ExecContext(ctx, d.ID, d.Scheme, d.Title, d.Answer, d.Caption, d.CaptionMode, d.Source,
			d.CreatedAt.Format(time.RFC3339Nano)); err != nil {
			return nil, fmt.Errorf("insert drill: %w", err)
		}
		saved = append(saved, d)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListDrills returns saved drills, oldest first. An empty scheme lists all.
func (s *Store) ListDrills(ctx context.Context, scheme string) ([]model.SavedDrill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scheme, title, answer, caption, caption_mode, source, created_at
		 FROM drills
		 WHERE (? = '' OR scheme = ?)
		 ORDER BY created_at ASC, id ASC`, scheme, scheme)
	if err != nil {
		return nil, err
	}
	return scanDrills(rows)
}

// GetDrill returns the drill whose id is, or starts with, id.
func (s *Store) GetDrill(ctx context.Context, id string) (model.SavedDrill, error) {
	if id == "" {
		return model.SavedDrill{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scheme, title, answer, caption, caption_mode, source, created_at
		 FROM drills
		 WHERE id = ? OR substr(id, 1, ?) = ?
		 LIMIT 2`, id, len(id), id)
	if err != nil {
		return model.SavedDrill{}, err
	}
	drills, err := scanDrills(rows)
	if err != nil {
		return model.SavedDrill{}, err
	}
	switch len(drills) {
	case 0:
		return model.SavedDrill{}, ErrNotFound
	case 1:
		return drills[0], nil
	}
	return model.SavedDrill{}, ErrAmbiguous
}

// DeleteDrill removes the drill matching id, as resolved by GetDrill.
func (s *Store) DeleteDrill(ctx context.Context, id string) (model.SavedDrill, error) {
	d, err := s.GetDrill(ctx, id)
	if err != nil {
		return model.SavedDrill{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drills WHERE id = ?`, d.ID); err != nil {
		return model.SavedDrill{}, fmt.Errorf("delete drill: %w", err)
	}
	return d, nil
}

func scanDrills(rows *sql.Rows) ([]model.SavedDrill, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []model.SavedDrill
	for rows.Next() {
		var d model.SavedDrill
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Scheme, &d.Title, &d.Answer, &d.Caption, &d.CaptionMode, &d.Source, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		d.CreatedAt = parsed
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
