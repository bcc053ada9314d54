package model

import "time"

// Exhibition represents one exhibition event managed by an admin. The
// tax and discount configurations attached here are the read-only pricing
// input for quote computation; inactive entries are treated as absent.
// This struct corresponds to a row in the `exhibitions` table, with the
// config slices stored as JSON columns.
//
// Fields:
//  ID                   – primary key identifier.
//  OwnerID              – user ID of the managing admin.
//  Name                 – exhibition name.
//  Venue                – free-form venue description.
//  StartsAt / EndsAt    – exhibition dates.
//  IsActive             – whether the exhibition is open for booking.
//  TaxConfig            – tax lines applied to quotes.
//  DiscountConfig       – discounts offered to authenticated exhibitors.
//  PublicDiscountConfig – discounts offered on the public (guest) flow.
//  CreatedAt/UpdatedAt  – row timestamps.
type Exhibition struct {
	ID                   uint64           // exhibitions.id
	OwnerID              uint64           // exhibitions.owner_id
	Name                 string           // exhibitions.name
	Venue                string           // exhibitions.venue
	StartsAt             time.Time        // exhibitions.starts_at
	EndsAt               time.Time        // exhibitions.ends_at
	IsActive             bool             // exhibitions.is_active
	TaxConfig            []TaxConfig      // exhibitions.tax_config (JSON)
	DiscountConfig       []DiscountConfig // exhibitions.discount_config (JSON)
	PublicDiscountConfig []DiscountConfig // exhibitions.public_discount_config (JSON)
	CreatedAt            time.Time        // exhibitions.created_at
	UpdatedAt            time.Time        // exhibitions.updated_at
}

// TaxConfig is one tax line applied to the post-discount total. Rate is
// a percentage (18 means 18%).
type TaxConfig struct {
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`
	IsActive bool    `json:"isActive"`
}

// DiscountType distinguishes percentage discounts from fixed-amount ones.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountConfig is one configured discount. A percentage discount
// multiplies each stall's base amount by (1 - Value/100); a fixed
// discount subtracts Value once from the aggregate base amount.
type DiscountConfig struct {
	Name     string       `json:"name"`
	Type     DiscountType `json:"type"`
	Value    float64      `json:"value"`
	IsActive bool         `json:"isActive"`
}
