package repository // repository defines data access for layout versions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/expo-stall-booking/internal/model"
)

// ErrLayoutNotFound is returned when no layout version matches a lookup.
var ErrLayoutNotFound = errors.New("layout not found")

// LayoutRepo persists exhibition layouts as append-only versioned JSON
// documents. Structural edits always create a new version; rows are
// never mutated in place, so a viewer that fetched version N can keep
// using it while version N+1 is being published.
type LayoutRepo struct {
	db *sql.DB
}

// NewLayoutRepo constructs a LayoutRepo with the given DB handle.
func NewLayoutRepo(db *sql.DB) *LayoutRepo {
	return &LayoutRepo{db: db}
}

// CreateVersion appends a new layout version for an exhibition and
// makes it the active one. The version number is assigned here as
// max(version)+1 inside a transaction; the caller's Version field is
// overwritten with the assigned value.
func (r *LayoutRepo) CreateVersion(ctx context.Context, l *model.Layout) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var next uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) + 1 FROM layout_versions WHERE exhibition_id = ?",
		l.ExhibitionID).Scan(&next); err != nil {
		return err
	}
	l.Version = next
	l.IsActive = true

	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE layout_versions SET is_active = 0 WHERE exhibition_id = ? AND is_active = 1",
		l.ExhibitionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO layout_versions (exhibition_id, version, is_active, document) VALUES (?, ?, 1, ?)",
		l.ExhibitionID, l.Version, doc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetActive returns the active layout version for an exhibition.
func (r *LayoutRepo) GetActive(ctx context.Context, exhibitionID uint64) (*model.Layout, error) {
	const q = `SELECT document FROM layout_versions
	           WHERE exhibition_id = ? AND is_active = 1 LIMIT 1`
	return r.scanDoc(r.db.QueryRowContext(ctx, q, exhibitionID))
}

// GetVersion returns a specific layout version for an exhibition.
func (r *LayoutRepo) GetVersion(ctx context.Context, exhibitionID, version uint64) (*model.Layout, error) {
	const q = `SELECT document FROM layout_versions
	           WHERE exhibition_id = ? AND version = ? LIMIT 1`
	return r.scanDoc(r.db.QueryRowContext(ctx, q, exhibitionID, version))
}

// ListVersions returns the version numbers of an exhibition's layouts,
// newest first, with the active one flagged.
func (r *LayoutRepo) ListVersions(ctx context.Context, exhibitionID uint64) ([]LayoutVersionInfo, error) {
	const q = `SELECT version, is_active, created_at FROM layout_versions
	           WHERE exhibition_id = ? ORDER BY version DESC`
	rows, err := r.db.QueryContext(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LayoutVersionInfo
	for rows.Next() {
		var v LayoutVersionInfo
		if err := rows.Scan(&v.Version, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LayoutVersionInfo is the version listing row returned by ListVersions.
type LayoutVersionInfo struct {
	Version   uint64 `json:"version"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

func (r *LayoutRepo) scanDoc(row *sql.Row) (*model.Layout, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	var l model.Layout
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
