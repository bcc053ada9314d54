package repository // repository defines data access for bookings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/expo-stall-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// blockingStatuses are the booking states that keep a stall off the
// market. Cancelled and rejected bookings release their stalls.
const blockingStatuses = `'pending', 'confirmed', 'approved'`

// BookingRepo provides methods to work with bookings. The calculations
// snapshot and stall id list are stored as JSON columns; the snapshot is
// written once at creation and never updated afterwards.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// DB exposes the underlying handle for transaction management.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// Create inserts a booking inside the given transaction. It first
// re-checks, with a range lock on the exhibition's blocking bookings,
// that none of the requested stalls is already taken; conflicting stall
// ids are returned alongside ErrConflict. On success the booking's ID is
// populated.
func (r *BookingRepo) Create(ctx context.Context, tx *sql.Tx, b *model.Booking) ([]string, error) {
	taken, err := r.bookedStallIDsTx(ctx, tx, b.ExhibitionID)
	if err != nil {
		return nil, err
	}
	var conflicts []string
	for _, id := range b.StallIDs {
		if _, ok := taken[id]; ok {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, ErrConflict
	}

	stallJSON, err := json.Marshal(b.StallIDs)
	if err != nil {
		return nil, err
	}
	custJSON, err := json.Marshal(b.Customer)
	if err != nil {
		return nil, err
	}
	calcJSON, err := json.Marshal(b.Calculations)
	if err != nil {
		return nil, err
	}
	const q = `INSERT INTO bookings
	           (exhibition_id, layout_version, stall_ids, customer, amount, calculations, status, payment_status, booking_source)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.ExhibitionID, b.LayoutVersion, stallJSON, custJSON, b.Amount, calcJSON,
		string(b.Status), string(b.PaymentStatus), b.BookingSource)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)
	return nil, nil
}

// GetByID retrieves a booking by its id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, exhibition_id, layout_version, stall_ids, customer, amount, calculations,
	                  status, payment_status, booking_source, approved_at, cancelled_at, invoice_generated_at,
	                  created_at, updated_at
	           FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByExhibition returns all bookings for an exhibition, newest first.
func (r *BookingRepo) ListByExhibition(ctx context.Context, exhibitionID uint64) ([]model.Booking, error) {
	const q = `SELECT id, exhibition_id, layout_version, stall_ids, customer, amount, calculations,
	                  status, payment_status, booking_source, approved_at, cancelled_at, invoice_generated_at,
	                  created_at, updated_at
	           FROM bookings WHERE exhibition_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus moves a booking into a new workflow state and stamps the
// matching timestamp column. The calculations snapshot is untouched.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	var q string
	switch status {
	case model.BookingApproved:
		q = "UPDATE bookings SET status=?, approved_at=NOW(), updated_at=NOW() WHERE id=?"
	case model.BookingCancelled:
		q = "UPDATE bookings SET status=?, cancelled_at=NOW(), updated_at=NOW() WHERE id=?"
	default:
		q = "UPDATE bookings SET status=?, updated_at=NOW() WHERE id=?"
	}
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// UpdatePaymentStatus updates the payment state of a booking.
func (r *BookingRepo) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET payment_status=?, updated_at=NOW() WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// MarkInvoiceGenerated stamps the invoice timestamp once.
func (r *BookingRepo) MarkInvoiceGenerated(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET invoice_generated_at=NOW(), updated_at=NOW() WHERE id=? AND invoice_generated_at IS NULL", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookedStallIDs returns the set of stall ids held by blocking bookings
// of an exhibition. Availability served to viewers is derived by
// overlaying this set onto the published layout; it is never stored on
// the layout itself.
func (r *BookingRepo) BookedStallIDs(ctx context.Context, exhibitionID uint64) (map[string]struct{}, error) {
	const q = `SELECT stall_ids FROM bookings
	           WHERE exhibition_id = ? AND status IN (` + blockingStatuses + `)`
	return collectStallIDs(r.db.QueryContext(ctx, q, exhibitionID))
}

func (r *BookingRepo) bookedStallIDsTx(ctx context.Context, tx *sql.Tx, exhibitionID uint64) (map[string]struct{}, error) {
	const q = `SELECT stall_ids FROM bookings
	           WHERE exhibition_id = ? AND status IN (` + blockingStatuses + `) FOR UPDATE`
	return collectStallIDs(tx.QueryContext(ctx, q, exhibitionID))
}

func collectStallIDs(rows *sql.Rows, err error) (map[string]struct{}, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make(map[string]struct{})
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, err
		}
		for _, id := range ids {
			taken[id] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
	var (
		b                              model.Booking
		stallJSON, custJSON, calcJSON  []byte
		status, payStatus              string
		approved, cancelled, invoiced  sql.NullTime
	)
	err := scan(&b.ID, &b.ExhibitionID, &b.LayoutVersion, &stallJSON, &custJSON, &b.Amount, &calcJSON,
		&status, &payStatus, &b.BookingSource, &approved, &cancelled, &invoiced, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	b.PaymentStatus = model.PaymentStatus(payStatus)
	if err := json.Unmarshal(stallJSON, &b.StallIDs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(custJSON, &b.Customer); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(calcJSON, &b.Calculations); err != nil {
		return nil, err
	}
	if approved.Valid {
		b.ApprovedAt = &approved.Time
	}
	if cancelled.Valid {
		b.CancelledAt = &cancelled.Time
	}
	if invoiced.Valid {
		b.InvoiceGeneratedAt = &invoiced.Time
	}
	return &b, nil
}
