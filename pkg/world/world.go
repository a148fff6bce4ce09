package world

import "github.com/chewxy/math32"

// Camera describes a perspective camera looking down the Z axis.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Distance is the camera's distance from the projection plane.
	Distance float32
}

// Viewport is the device viewport in pixels.
type Viewport struct {
	Width  float32
	Height float32
	Ratio  float32
}

// NewViewport builds a viewport and derives its aspect ratio.
func NewViewport(width, height float32) Viewport {
	vp := Viewport{Width: width, Height: height}
	if height != 0 {
		vp.Ratio = width / height
	}
	return vp
}

// Rect is a screen-space rectangle in pixels. Top is measured from the page
// origin, scroll offset included.
type Rect struct {
	Left   float32
	Top    float32
	Width  float32
	Height float32
}

// Size is a rectangle scaled to world units. X and Y mirror Width and Height.
type Size struct {
	Width  float32
	Height float32
	X      float32
	Y      float32
}

// Vec2 is a point in world units.
type Vec2 struct {
	X float32
	Y float32
}

// Placement is a world-space size and a center-anchored position.
type Placement struct {
	Size     Size
	Position Vec2
}

// World holds the visible extent of the projection plane for one camera and
// viewport.
type World struct {
	Width  float32
	Height float32

	vpWidth  float32
	vpHeight float32
}

// New computes the world extent seen by cam through vp.
func New(cam Camera, vp Viewport) World {
	height := 2 * math32.Tan(radians(cam.FOV)*0.5) * cam.Distance
	return World{
		Width:    height * vp.Ratio,
		Height:   height,
		vpWidth:  vp.Width,
		vpHeight: vp.Height,
	}
}

// FromViewport scales a pixel width and height into world units.
func (w World) FromViewport(width, height float32) Size {
	sw := w.Width * width / orOne(w.vpWidth)
	sh := w.Height * height / orOne(w.vpHeight)
	return Size{Width: sw, Height: sh, X: sw, Y: sh}
}

// FromBoundingRect converts r into a world size and a position relative to
// the center of the plane. World Y grows upwards.
func (w World) FromBoundingRect(r Rect) Placement {
	size := w.FromViewport(r.Width, r.Height)
	origin := w.FromViewport(r.Left, r.Top)

	return Placement{
		Size: size,
		Position: Vec2{
			X: origin.Width - w.Width/2 + size.Width/2,
			Y: -(origin.Height - w.Height/2 + size.Height/2),
		},
	}
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

func orOne(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}
