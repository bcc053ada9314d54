package repository // repository defines data access for stall types

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/expo-stall-booking/internal/model"
)

// ErrStallTypeNotFound is returned when a stall type lookup yields no rows.
var ErrStallTypeNotFound = errors.New("stall type not found")

// StallTypeRepo provides methods to work with stall type categories.
// Stall types live independently of any layout version; layouts embed a
// denormalized copy of the ones they reference at publish time.
type StallTypeRepo struct {
	db *sql.DB
}

// NewStallTypeRepo constructs a StallTypeRepo with the given DB handle.
func NewStallTypeRepo(db *sql.DB) *StallTypeRepo {
	return &StallTypeRepo{db: db}
}

// Create inserts a stall type owned by an admin.
func (r *StallTypeRepo) Create(ctx context.Context, ownerID uint64, st *model.StallType) error {
	included, err := json.Marshal(st.IncludedAmenities)
	if err != nil {
		return err
	}
	available, err := json.Marshal(st.AvailableAmenities)
	if err != nil {
		return err
	}
	const q = `INSERT INTO stall_types
	           (id, owner_id, name, color, default_rate_per_sqm, default_size, included_amenities, available_amenities, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		st.ID, ownerID, st.Name, st.Color, st.DefaultRatePerSqm, st.DefaultSize, included, available, st.IsActive)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// GetByID retrieves a stall type by its id.
func (r *StallTypeRepo) GetByID(ctx context.Context, id string) (*model.StallType, error) {
	const q = `SELECT id, name, color, default_rate_per_sqm, default_size,
	                  included_amenities, available_amenities, is_active
	           FROM stall_types WHERE id = ?`
	return scanStallType(r.db.QueryRowContext(ctx, q, id).Scan)
}

// ListByOwner returns all stall types created by an admin.
func (r *StallTypeRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.StallType, error) {
	const q = `SELECT id, name, color, default_rate_per_sqm, default_size,
	                  included_amenities, available_amenities, is_active
	           FROM stall_types WHERE owner_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StallType
	for rows.Next() {
		st, err := scanStallType(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateByIDAndOwner updates a stall type's mutable fields. Returns
// sql.ErrNoRows when not found or not owned by this owner.
func (r *StallTypeRepo) UpdateByIDAndOwner(ctx context.Context, ownerID uint64, st *model.StallType) error {
	included, err := json.Marshal(st.IncludedAmenities)
	if err != nil {
		return err
	}
	available, err := json.Marshal(st.AvailableAmenities)
	if err != nil {
		return err
	}
	const q = `UPDATE stall_types
	           SET name = ?, color = ?, default_rate_per_sqm = ?, default_size = ?,
	               included_amenities = ?, available_amenities = ?, is_active = ?
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		st.Name, st.Color, st.DefaultRatePerSqm, st.DefaultSize, included, available, st.IsActive, st.ID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner deletes a stall type. Layouts that embedded it keep
// their denormalized copy.
func (r *StallTypeRepo) DeleteByIDAndOwner(ctx context.Context, id string, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM stall_types WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanStallType(scan func(dest ...interface{}) error) (*model.StallType, error) {
	var (
		st                   model.StallType
		included, available  []byte
	)
	err := scan(&st.ID, &st.Name, &st.Color, &st.DefaultRatePerSqm, &st.DefaultSize, &included, &available, &st.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStallTypeNotFound
		}
		return nil, err
	}
	if len(included) > 0 {
		if err := json.Unmarshal(included, &st.IncludedAmenities); err != nil {
			return nil, err
		}
	}
	if len(available) > 0 {
		if err := json.Unmarshal(available, &st.AvailableAmenities); err != nil {
			return nil, err
		}
	}
	return &st, nil
}
