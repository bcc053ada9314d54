package geometry

import (
	"errors"
	"testing"
)

func rect(w, h float64) Dimensions {
	return Dimensions{ShapeType: ShapeRectangle, Width: w, Height: h}
}

func lshape(r1w, r1h, r2w, r2h float64, o Orientation) Dimensions {
	return Dimensions{
		ShapeType:   ShapeLShape,
		Rect1Width:  r1w, Rect1Height: r1h,
		Rect2Width:  r2w, Rect2Height: r2h,
		Orientation: o,
	}
}

func TestAreaRectangle(t *testing.T) {
	cases := []struct {
		name string
		d    Dimensions
		want float64
	}{
		{"unit square", rect(1, 1), 1},
		{"standard stall", rect(20, 15), 300},
		{"fractional extents", rect(2.5, 4), 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Area(tc.d)
			if err != nil {
				t.Fatalf("Area: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Area = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestAreaLShapeIndependentOfOrientation(t *testing.T) {
	// 10x5 + 4x3 = 62, whatever corner is notched.
	for _, o := range []Orientation{NotchTopLeft, NotchTopRight, NotchBottomLeft, NotchBottomRight} {
		got, err := Area(lshape(10, 5, 4, 3, o))
		if err != nil {
			t.Fatalf("Area(%s): %v", o, err)
		}
		if got != 62 {
			t.Fatalf("Area(%s) = %g, want 62", o, got)
		}
	}
}

func TestAreaInvalid(t *testing.T) {
	cases := []struct {
		name string
		d    Dimensions
	}{
		{"zero width", rect(0, 5)},
		{"negative height", rect(5, -1)},
		{"unknown shape", Dimensions{ShapeType: "circle", Width: 3, Height: 3}},
		{"l-shape missing rect2", Dimensions{ShapeType: ShapeLShape, Rect1Width: 4, Rect1Height: 4, Orientation: NotchTopLeft}},
		{"l-shape bad orientation", lshape(4, 4, 2, 2, "center")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Area(tc.d); !errors.Is(err, ErrInvalidGeometry) {
				t.Fatalf("Area error = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestBoundingSize(t *testing.T) {
	cases := []struct {
		name string
		d    Dimensions
		want Size
	}{
		{"rectangle is its own box", rect(20, 15), Size{20, 15}},
		{"top notch extends width", lshape(10, 5, 4, 3, NotchTopRight), Size{14, 5}},
		{"top notch keeps taller height", lshape(10, 5, 4, 8, NotchTopLeft), Size{14, 8}},
		{"bottom notch extends height", lshape(10, 5, 4, 3, NotchBottomLeft), Size{10, 8}},
		{"bottom notch keeps wider width", lshape(10, 5, 12, 3, NotchBottomRight), Size{12, 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BoundingSize(tc.d)
			if err != nil {
				t.Fatalf("BoundingSize: %v", err)
			}
			if got != tc.want {
				t.Fatalf("BoundingSize = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestBoundingSizeInvalid(t *testing.T) {
	if _, err := BoundingSize(rect(-2, 3)); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("BoundingSize error = %v, want ErrInvalidGeometry", err)
	}
}
