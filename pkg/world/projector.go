package world

import "sync"

// Projector memoizes a World and recomputes it only when the camera or the
// viewport actually change.
type Projector struct {
	mu     sync.Mutex
	cam    Camera
	vp     Viewport
	world  World
	valid  bool
	builds int
}

// NewProjector returns a projector for cam and vp.
func NewProjector(cam Camera, vp Viewport) *Projector {
	return &Projector{cam: cam, vp: vp}
}

// Update replaces both inputs and returns the current World.
func (p *Projector) Update(cam Camera, vp Viewport) World {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cam != p.cam || vp != p.vp {
		p.cam, p.vp = cam, vp
		p.valid = false
	}
	return p.worldLocked()
}

// Resize applies a new viewport size in pixels.
func (p *Projector) Resize(width, height float32) World {
	p.mu.Lock()
	cam := p.cam
	p.mu.Unlock()
	return p.Update(cam, NewViewport(width, height))
}

// SetCamera applies a new camera.
func (p *Projector) SetCamera(cam Camera) World {
	p.mu.Lock()
	vp := p.vp
	p.mu.Unlock()
	return p.Update(cam, vp)
}

// World returns the memoized World.
func (p *Projector) World() World {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.worldLocked()
}

func (p *Projector) worldLocked() World {
	if !p.valid {
		p.world = New(p.cam, p.vp)
		p.valid = true
		p.builds++
	}
	return p.world
}
