// Package viewport tracks the pan/zoom state of the interactive canvas
// and converts between screen pixels and logical layout meters. Each
// browsing session owns its own Viewport instance; the package holds no
// global state and never touches the layout or selection.
package viewport

import "github.com/iliyamo/expo-stall-booking/internal/geometry"

// Zoom limits and stepping shared by all viewports.
const (
	MinZoom  = 0.1
	MaxZoom  = 3.0
	ZoomStep = 1.2

	// FitMargin is the pixel margin kept around the content when
	// fitting it to the screen.
	FitMargin = 40.0
)

// Point is a coordinate pair, either in screen pixels or logical meters
// depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the affine transform state of one canvas session:
// logical = (screen - pan) / zoom. Width and Height are the canvas size
// in pixels.
type Viewport struct {
	Zoom   float64 `json:"zoom"`
	PanX   float64 `json:"panX"`
	PanY   float64 `json:"panY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// New returns a viewport for a canvas of the given pixel size at zoom 1
// with no pan.
func New(width, height float64) *Viewport {
	return &Viewport{Zoom: 1, Width: width, Height: height}
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// SetZoom changes the zoom level while keeping the logical point under
// the viewport center fixed on screen (stable-anchor zoom). The new
// level is clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	zoom = clampZoom(zoom)
	if zoom == v.Zoom {
		return
	}
	// Anchor: keep the logical point at the screen center in place.
	cx, cy := v.Width/2, v.Height/2
	anchor := v.ScreenToLogical(Point{X: cx, Y: cy})
	v.Zoom = zoom
	v.PanX = cx - anchor.X*zoom
	v.PanY = cy - anchor.Y*zoom
}

// ZoomIn raises the zoom by one step, clamped to MaxZoom.
func (v *Viewport) ZoomIn() { v.SetZoom(v.Zoom * ZoomStep) }

// ZoomOut lowers the zoom by one step, clamped to MinZoom.
func (v *Viewport) ZoomOut() { v.SetZoom(v.Zoom / ZoomStep) }

// Pan shifts the view by the given screen-pixel deltas.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// FitToScreen computes zoom and pan so the full content bounding box is
// visible and centered with FitMargin pixels of breathing room. The
// resulting zoom is clamped to the usual limits.
func (v *Viewport) FitToScreen(content geometry.Size) {
	if content.Width <= 0 || content.Height <= 0 || v.Width <= 0 || v.Height <= 0 {
		return
	}
	availW := v.Width - 2*FitMargin
	availH := v.Height - 2*FitMargin
	if availW <= 0 || availH <= 0 {
		availW, availH = v.Width, v.Height
	}
	zoom := availW / content.Width
	if zh := availH / content.Height; zh < zoom {
		zoom = zh
	}
	v.Zoom = clampZoom(zoom)
	// Center the content in the canvas.
	v.PanX = (v.Width - content.Width*v.Zoom) / 2
	v.PanY = (v.Height - content.Height*v.Zoom) / 2
}

// ScreenToLogical maps a screen-pixel point into logical meters.
func (v *Viewport) ScreenToLogical(p Point) Point {
	return Point{
		X: (p.X - v.PanX) / v.Zoom,
		Y: (p.Y - v.PanY) / v.Zoom,
	}
}

// LogicalToScreen maps a logical-meter point into screen pixels.
func (v *Viewport) LogicalToScreen(p Point) Point {
	return Point{
		X: p.X*v.Zoom + v.PanX,
		Y: p.Y*v.Zoom + v.PanY,
	}
}
