package viewport

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestZoomOutClampedAtFloor(t *testing.T) {
	v := New(800, 600)
	for i := 0; i < 50; i++ {
		v.ZoomOut()
	}
	if v.Zoom != MinZoom {
		t.Fatalf("Zoom after repeated ZoomOut = %g, want %g", v.Zoom, MinZoom)
	}
}

func TestZoomInClampedAtCeiling(t *testing.T) {
	v := New(800, 600)
	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	if v.Zoom != MaxZoom {
		t.Fatalf("Zoom after repeated ZoomIn = %g, want %g", v.Zoom, MaxZoom)
	}
}

func TestZoomKeepsCenterAnchored(t *testing.T) {
	v := New(800, 600)
	v.Pan(37, -12)
	center := Point{X: 400, Y: 300}
	before := v.ScreenToLogical(center)
	v.ZoomIn()
	after := v.ScreenToLogical(center)
	if !almostEqual(before.X, after.X) || !almostEqual(before.Y, after.Y) {
		t.Fatalf("center moved: before=%+v after=%+v", before, after)
	}
	v.SetZoom(2.5)
	after = v.ScreenToLogical(center)
	if !almostEqual(before.X, after.X) || !almostEqual(before.Y, after.Y) {
		t.Fatalf("center moved after SetZoom: before=%+v after=%+v", before, after)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	v := New(1024, 768)
	v.SetZoom(1.7)
	v.Pan(-55, 23)
	pts := []Point{{0, 0}, {12.5, 40}, {-3, 7.25}, {1000, 600}}
	for _, p := range pts {
		back := v.ScreenToLogical(v.LogicalToScreen(p))
		if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
			t.Fatalf("round trip %+v -> %+v", p, back)
		}
	}
}

func TestFitToScreen(t *testing.T) {
	v := New(800, 600)
	content := geometry.Size{Width: 200, Height: 120}
	v.FitToScreen(content)

	// The whole content must land inside the canvas.
	tl := v.LogicalToScreen(Point{0, 0})
	br := v.LogicalToScreen(Point{content.Width, content.Height})
	if tl.X < 0 || tl.Y < 0 || br.X > v.Width || br.Y > v.Height {
		t.Fatalf("content not fully visible: tl=%+v br=%+v", tl, br)
	}
	// Content is centered.
	if !almostEqual(tl.X+br.X, v.Width) || !almostEqual(tl.Y+br.Y, v.Height) {
		t.Fatalf("content not centered: tl=%+v br=%+v", tl, br)
	}
}

func TestFitToScreenClampsZoom(t *testing.T) {
	v := New(800, 600)
	// Tiny content would need zoom far above the ceiling.
	v.FitToScreen(geometry.Size{Width: 1, Height: 1})
	if v.Zoom != MaxZoom {
		t.Fatalf("Zoom = %g, want %g", v.Zoom, MaxZoom)
	}
	// Huge content would need zoom below the floor.
	v.FitToScreen(geometry.Size{Width: 1e6, Height: 1e6})
	if v.Zoom != MinZoom {
		t.Fatalf("Zoom = %g, want %g", v.Zoom, MinZoom)
	}
}

func TestFitToScreenIgnoresDegenerateInput(t *testing.T) {
	v := New(800, 600)
	v.SetZoom(2)
	z, px, py := v.Zoom, v.PanX, v.PanY
	v.FitToScreen(geometry.Size{})
	if v.Zoom != z || v.PanX != px || v.PanY != py {
		t.Fatalf("viewport changed on empty content")
	}
}

func TestViewportSerializesCamelCase(t *testing.T) {
	v := New(1280, 800)
	v.SetZoom(1.5)
	bs, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"zoom"`, `"panX"`, `"panY"`, `"width"`, `"height"`} {
		if !strings.Contains(string(bs), key) {
			t.Fatalf("payload %s missing key %s", bs, key)
		}
	}
}
