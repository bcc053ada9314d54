package model

import "time"

// BookingStatus tracks the approval workflow of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
)

// PaymentStatus tracks how much of a booking has been paid.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentPartial  PaymentStatus = "partial"
)

// Booking records an exhibitor's booking of one or more stalls. The
// Calculations snapshot is immutable once the booking is created: later
// changes to the exhibition's pricing configuration never retroactively
// alter an existing booking. This struct corresponds to a row in the
// `bookings` table; StallIDs and Calculations are JSON columns.
//
// Fields:
//  ID                 – primary key identifier.
//  ExhibitionID       – exhibition being booked.
//  LayoutVersion      – layout version the stalls were selected from.
//  StallIDs           – booked stall ids.
//  Customer           – customer-entered contact/company fields.
//  Amount             – grand total, equal to Calculations.TotalAmount.
//  Calculations       – immutable price breakdown snapshot.
//  Status             – approval workflow state.
//  PaymentStatus      – payment state.
//  BookingSource      – "public" or "exhibitor".
//  ApprovedAt         – when an admin approved the booking.
//  CancelledAt        – when the booking was cancelled.
//  InvoiceGeneratedAt – when an invoice was generated.
type Booking struct {
	ID                 uint64              // bookings.id
	ExhibitionID       uint64              // bookings.exhibition_id
	LayoutVersion      uint64              // bookings.layout_version
	StallIDs           []string            // bookings.stall_ids (JSON)
	Customer           CustomerDetails     // bookings.customer (JSON)
	Amount             float64             // bookings.amount
	Calculations       BookingCalculations // bookings.calculations (JSON)
	Status             BookingStatus       // bookings.status
	PaymentStatus      PaymentStatus       // bookings.payment_status
	BookingSource      string              // bookings.booking_source
	ApprovedAt         *time.Time          // bookings.approved_at (nullable)
	CancelledAt        *time.Time          // bookings.cancelled_at (nullable)
	InvoiceGeneratedAt *time.Time          // bookings.invoice_generated_at (nullable)
	CreatedAt          time.Time           // bookings.created_at
	UpdatedAt          time.Time           // bookings.updated_at
}

// CustomerDetails carries the customer-entered fields attached to a
// booking payload. Validation of these fields belongs to the HTTP layer.
type CustomerDetails struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`
	GSTNumber   string `json:"gstNumber,omitempty"`
}
