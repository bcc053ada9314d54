// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully created.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
    BookingID      uint64   `json:"booking_id"`
    ExhibitionID   uint64   `json:"exhibition_id"`
    ExhibitionName string   `json:"exhibition_name"`
    LayoutVersion  uint64   `json:"layout_version"`
    StallIDs       []string `json:"stall_ids"`
    CustomerName   string   `json:"customer_name"`
    CustomerEmail  string   `json:"customer_email"`
    BookingSource  string   `json:"booking_source"`
    TotalAmount    float64  `json:"total_amount"`
    CreatedAt      string   `json:"created_at"`
}
