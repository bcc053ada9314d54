// Package geometry models the physical shape of exhibition stalls and
// derives area and bounding extents from it. All values are expressed in
// meters; scaling to pixels is the job of the rendering layer, never of
// this package.
package geometry

import (
	"errors"
	"fmt"
)

// ShapeType discriminates the supported stall shapes. The value lives in
// the layout document as `shapeType`, so the string forms are part of the
// wire format.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeLShape    ShapeType = "l-shape"
)

// Orientation names the notched corner of an l-shape stall. For the two
// top orientations the second sub-rectangle extends along the width axis
// beside the first; for the two bottom orientations it extends along the
// height axis below it. The orientation never changes the area, only the
// bounding box.
type Orientation string

const (
	NotchTopLeft     Orientation = "top-left"
	NotchTopRight    Orientation = "top-right"
	NotchBottomLeft  Orientation = "bottom-left"
	NotchBottomRight Orientation = "bottom-right"
)

// ErrInvalidGeometry is returned when stall dimensions are malformed:
// a non-positive extent, an unknown shape type, or an l-shape missing
// its sub-rectangle fields. Callers can test for it with errors.Is.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Dimensions is the authoritative geometry of a single stall. For a
// rectangle only Width and Height are meaningful; for an l-shape the two
// sub-rectangles and the orientation are required and Width/Height are
// ignored. The two sub-rectangles are non-overlapping by construction.
type Dimensions struct {
	ShapeType   ShapeType   `json:"shapeType"`
	Width       float64     `json:"width,omitempty"`
	Height      float64     `json:"height,omitempty"`
	Rect1Width  float64     `json:"rect1Width,omitempty"`
	Rect1Height float64     `json:"rect1Height,omitempty"`
	Rect2Width  float64     `json:"rect2Width,omitempty"`
	Rect2Height float64     `json:"rect2Height,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
}

// Size is a width/height pair in meters.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that the dimensions describe a well-formed shape.
func Validate(d Dimensions) error {
	switch d.ShapeType {
	case ShapeRectangle:
		if d.Width <= 0 || d.Height <= 0 {
			return fmt.Errorf("%w: rectangle extents must be positive (width=%g height=%g)", ErrInvalidGeometry, d.Width, d.Height)
		}
		return nil
	case ShapeLShape:
		if d.Rect1Width <= 0 || d.Rect1Height <= 0 || d.Rect2Width <= 0 || d.Rect2Height <= 0 {
			return fmt.Errorf("%w: l-shape requires four positive sub-rectangle extents", ErrInvalidGeometry)
		}
		switch d.Orientation {
		case NotchTopLeft, NotchTopRight, NotchBottomLeft, NotchBottomRight:
			return nil
		default:
			return fmt.Errorf("%w: unknown l-shape orientation %q", ErrInvalidGeometry, d.Orientation)
		}
	default:
		return fmt.Errorf("%w: unknown shape type %q", ErrInvalidGeometry, d.ShapeType)
	}
}

// Area returns the stall's floor area in square meters. For an l-shape it
// is the sum of the two sub-rectangle areas regardless of orientation.
func Area(d Dimensions) (float64, error) {
	if err := Validate(d); err != nil {
		return 0, err
	}
	switch d.ShapeType {
	case ShapeRectangle:
		return d.Width * d.Height, nil
	case ShapeLShape:
		return d.Rect1Width*d.Rect1Height + d.Rect2Width*d.Rect2Height, nil
	}
	// Validate already rejected every other shape type.
	return 0, fmt.Errorf("%w: unknown shape type %q", ErrInvalidGeometry, d.ShapeType)
}

// BoundingSize returns the axis-aligned bounding box of the shape. For a
// rectangle it equals the declared extents. For an l-shape the box is the
// union of the two sub-rectangles as placed by the orientation: top
// notches put rect2 beside rect1 on the width axis, bottom notches stack
// rect2 below rect1 on the height axis.
func BoundingSize(d Dimensions) (Size, error) {
	if err := Validate(d); err != nil {
		return Size{}, err
	}
	switch d.ShapeType {
	case ShapeRectangle:
		return Size{Width: d.Width, Height: d.Height}, nil
	case ShapeLShape:
		switch d.Orientation {
		case NotchTopLeft, NotchTopRight:
			return Size{
				Width:  d.Rect1Width + d.Rect2Width,
				Height: maxf(d.Rect1Height, d.Rect2Height),
			}, nil
		default: // bottom-left, bottom-right
			return Size{
				Width:  maxf(d.Rect1Width, d.Rect2Width),
				Height: d.Rect1Height + d.Rect2Height,
			}, nil
		}
	}
	return Size{}, fmt.Errorf("%w: unknown shape type %q", ErrInvalidGeometry, d.ShapeType)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
