package repository // repository defines data access for exhibitions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/expo-stall-booking/internal/model"
)

// ErrExhibitionNotFound is returned when an exhibition lookup yields no rows.
var ErrExhibitionNotFound = errors.New("exhibition not found")

// ExhibitionRepo provides methods to work with exhibitions in the
// database. The tax/discount configuration slices are stored as JSON
// columns so the pricing input travels with the exhibition row.
type ExhibitionRepo struct {
	db *sql.DB
}

// NewExhibitionRepo constructs an ExhibitionRepo with the given DB handle.
func NewExhibitionRepo(db *sql.DB) *ExhibitionRepo {
	return &ExhibitionRepo{db: db}
}

// DB exposes the underlying handle for transaction management.
func (r *ExhibitionRepo) DB() *sql.DB { return r.db }

// Create inserts an exhibition. On success the ID field is populated.
func (r *ExhibitionRepo) Create(ctx context.Context, e *model.Exhibition) error {
	taxJSON, discJSON, pubJSON, err := marshalConfigs(e)
	if err != nil {
		return err
	}
	const q = `INSERT INTO exhibitions
	           (owner_id, name, venue, starts_at, ends_at, is_active, tax_config, discount_config, public_discount_config)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.OwnerID, e.Name, e.Venue, e.StartsAt, e.EndsAt, e.IsActive, taxJSON, discJSON, pubJSON)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID retrieves an exhibition by its id (no ownership check).
func (r *ExhibitionRepo) GetByID(ctx context.Context, id uint64) (*model.Exhibition, error) {
	const q = `SELECT id, owner_id, name, venue, starts_at, ends_at, is_active,
	                  tax_config, discount_config, public_discount_config, created_at, updated_at
	           FROM exhibitions WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDAndOwner retrieves an exhibition by id while enforcing ownership.
// A row owned by someone else yields ErrForbidden rather than not-found,
// so handlers can answer 403 instead of pretending the id is unknown.
func (r *ExhibitionRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Exhibition, error) {
	ex, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ex.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return ex, nil
}

// ListActive returns exhibitions open for booking, newest first.
func (r *ExhibitionRepo) ListActive(ctx context.Context) ([]model.Exhibition, error) {
	const q = `SELECT id, owner_id, name, venue, starts_at, ends_at, is_active,
	                  tax_config, discount_config, public_discount_config, created_at, updated_at
	           FROM exhibitions WHERE is_active = 1 ORDER BY starts_at DESC`
	return r.list(ctx, q)
}

// ListByOwner returns all exhibitions managed by an admin.
func (r *ExhibitionRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Exhibition, error) {
	const q = `SELECT id, owner_id, name, venue, starts_at, ends_at, is_active,
	                  tax_config, discount_config, public_discount_config, created_at, updated_at
	           FROM exhibitions WHERE owner_id = ? ORDER BY starts_at DESC`
	return r.list(ctx, q, ownerID)
}

// UpdateByIDAndOwner updates the mutable exhibition fields, including
// the pricing configuration. Returns sql.ErrNoRows when the exhibition
// does not exist or is not owned by this owner. Existing bookings keep
// their calculation snapshots regardless of config changes.
func (r *ExhibitionRepo) UpdateByIDAndOwner(ctx context.Context, e *model.Exhibition) error {
	taxJSON, discJSON, pubJSON, err := marshalConfigs(e)
	if err != nil {
		return err
	}
	const q = `UPDATE exhibitions
	           SET name = ?, venue = ?, starts_at = ?, ends_at = ?, is_active = ?,
	               tax_config = ?, discount_config = ?, public_discount_config = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		e.Name, e.Venue, e.StartsAt, e.EndsAt, e.IsActive, taxJSON, discJSON, pubJSON, e.ID, e.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner deletes an exhibition. Fails with ErrConflict when
// bookings still reference it.
func (r *ExhibitionRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE exhibition_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM exhibitions WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ExhibitionRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Exhibition, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Exhibition
	for rows.Next() {
		e, err := scanExhibition(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ExhibitionRepo) scanOne(row *sql.Row) (*model.Exhibition, error) {
	e, err := scanExhibition(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExhibitionNotFound
		}
		return nil, err
	}
	return e, nil
}

func scanExhibition(scan func(dest ...interface{}) error) (*model.Exhibition, error) {
	var (
		e                          model.Exhibition
		taxJSON, discJSON, pubJSON []byte
		startsAt, endsAt           time.Time
	)
	err := scan(&e.ID, &e.OwnerID, &e.Name, &e.Venue, &startsAt, &endsAt, &e.IsActive,
		&taxJSON, &discJSON, &pubJSON, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.StartsAt, e.EndsAt = startsAt, endsAt
	if len(taxJSON) > 0 {
		if err := json.Unmarshal(taxJSON, &e.TaxConfig); err != nil {
			return nil, err
		}
	}
	if len(discJSON) > 0 {
		if err := json.Unmarshal(discJSON, &e.DiscountConfig); err != nil {
			return nil, err
		}
	}
	if len(pubJSON) > 0 {
		if err := json.Unmarshal(pubJSON, &e.PublicDiscountConfig); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func marshalConfigs(e *model.Exhibition) (tax, disc, pub []byte, err error) {
	if tax, err = json.Marshal(e.TaxConfig); err != nil {
		return nil, nil, nil, err
	}
	if disc, err = json.Marshal(e.DiscountConfig); err != nil {
		return nil, nil, nil, err
	}
	if pub, err = json.Marshal(e.PublicDiscountConfig); err != nil {
		return nil, nil, nil, err
	}
	return tax, disc, pub, nil
}
