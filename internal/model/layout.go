package model

import "github.com/iliyamo/expo-stall-booking/internal/geometry"

// Layout is the aggregate floor-plan document for one exhibition. A new
// version is appended on every structural edit instead of mutating the
// active document in place, so viewers holding an older version never see
// it change mid-session. The whole document is stored as JSON in the
// `layout_versions` table and served verbatim to the canvas layer.
//
// Fields:
//  ExhibitionID – exhibition this layout belongs to.
//  Version      – monotonically increasing version number.
//  IsActive     – whether this is the version served to viewers.
//  Spaces       – canvas regions (normally exactly one).
//  Halls        – hall regions placed inside a space.
//  Stalls       – bookable stalls placed inside halls.
//  StallTypes   – stall categories referenced by stalls.
type Layout struct {
	ExhibitionID uint64      `json:"exhibitionId"`
	Version      uint64      `json:"version"`
	IsActive     bool        `json:"isActive"`
	Spaces       []Space     `json:"spaces"`
	Halls        []Hall      `json:"halls"`
	Stalls       []Stall     `json:"stalls"`
	StallTypes   []StallType `json:"stallTypes"`
}

// Space is the rectangular canvas region of a floor plan, together with
// the canvas display defaults the viewer starts from.
type Space struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
	PanX   float64 `json:"panX"`
	PanY   float64 `json:"panY"`
}

// Hall is a named sub-region of a space containing stalls. Stall counts
// are never stored on the hall; they are derived from the stalls that
// reference it (see layout.Store.HallSummary).
type Hall struct {
	ID      string  `json:"id"`
	SpaceID string  `json:"spaceId"`
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
}

// StallStatus is the live availability of a stall within a layout.
type StallStatus string

const (
	StallAvailable StallStatus = "available"
	StallBooked    StallStatus = "booked"
	StallBlocked   StallStatus = "blocked"
)

// Stall is an individually bookable unit of floor area within a hall.
// Dimensions is the authoritative geometry; Size is only the nominal
// display label (e.g. "3x3"). TotalPrice is always area x RatePerSqm and
// is recomputed rather than trusted when pricing.
//
// Fields:
//  ID          – stall identifier unique within the layout.
//  HallID      – containing hall.
//  StallTypeID – referenced stall category (may be empty).
//  Number      – human-facing stall number, e.g. "A-12".
//  X, Y        – position of the stall inside its hall, in meters.
//  Size        – nominal size label for display.
//  Dimensions  – authoritative geometry (rectangle or l-shape).
//  RatePerSqm  – price per square meter.
//  BasePrice   – informational flat figure carried for display; never
//                enters price computation.
//  TotalPrice  – derived price, area x RatePerSqm.
//  Status      – available | booked | blocked.
//  Discount    – optional per-stall override discount.
type Stall struct {
	ID          string              `json:"id"`
	HallID      string              `json:"hallId"`
	StallTypeID string              `json:"stallTypeId,omitempty"`
	Number      string              `json:"number"`
	X           float64             `json:"x"`
	Y           float64             `json:"y"`
	Size        string              `json:"size,omitempty"`
	Dimensions  geometry.Dimensions `json:"dimensions"`
	RatePerSqm  float64             `json:"ratePerSqm"`
	BasePrice   float64             `json:"basePrice,omitempty"`
	TotalPrice  float64             `json:"totalPrice,omitempty"`
	Status      StallStatus         `json:"status"`
	Discount    *DiscountConfig     `json:"discount,omitempty"`
}

// StallType is a category applied to stalls: a display color plus
// defaults and amenity lists. Its lifecycle is independent of any single
// stall; stalls reference it by id.
type StallType struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Color              string   `json:"color"`
	DefaultRatePerSqm  float64  `json:"defaultRatePerSqm"`
	DefaultSize        string   `json:"defaultSize,omitempty"`
	IncludedAmenities  []string `json:"includedAmenities,omitempty"`
	AvailableAmenities []string `json:"availableAmenities,omitempty"`
	IsActive           bool     `json:"isActive"`
}
