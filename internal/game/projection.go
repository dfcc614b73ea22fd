package game

import (
	"math"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

const (
	nodeDiameter = 40.0
	nodeMargin   = 10.0
	nodePitch    = nodeDiameter + 2*nodeMargin // centre-to-centre spacing

	// autoYawRate is the idle camera rotation in radians per second.
	autoYawRate = 0.05
)

// Camera orbits the grid centre. Yaw turns around the vertical axis and
// pitch tilts the view down towards the floor.
type Camera struct {
	Yaw   float64
	Pitch float64
	Zoom  float64
}

// DefaultCamera looks slightly down at the grid.
func DefaultCamera() Camera {
	return Camera{Pitch: 0.45, Zoom: 1}
}

// Projected is a node position on screen. Depth grows away from the
// viewer, so draw in descending depth.
type Projected struct {
	X, Y  float64
	Depth float64
	Scale float64 // radius multiplier from perspective
}

// Project maps grid position p of a grid sized dims to screen space,
// centred on (cx, cy). Grid y is up; x and z span the floor.
func (c Camera) Project(p, dims search.Vec3, cx, cy float64) Projected {
	// world coordinates centred on the grid
	wx := (float64(p.X) - float64(dims.X-1)/2) * nodePitch
	wy := (float64(p.Y) - float64(dims.Y-1)/2) * nodePitch
	wz := (float64(p.Z) - float64(dims.Z-1)/2) * nodePitch

	sinY, cosY := math.Sincos(c.Yaw)
	rx := wx*cosY - wz*sinY
	rz := wx*sinY + wz*cosY

	sinP, cosP := math.Sincos(c.Pitch)
	ry := wy*cosP - rz*sinP
	depth := wy*sinP + rz*cosP

	// mild perspective so near nodes read larger
	const viewDist = 1600.0
	persp := viewDist / (viewDist + depth)
	if persp <= 0 {
		persp = 0.01
	}
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	s := persp * zoom
	return Projected{
		X:     cx + rx*s,
		Y:     cy - ry*s,
		Depth: depth,
		Scale: s,
	}
}

// FitZoom returns the zoom that keeps a grid of dims inside a w×h viewport
// at any yaw.
func FitZoom(dims search.Vec3, w, h float64) float64 {
	floor := math.Hypot(float64(dims.X), float64(dims.Z)) * nodePitch
	height := float64(dims.Y)*nodePitch + floor*0.5
	z := math.Min(w/(floor+nodePitch), h/(height+nodePitch))
	return math.Max(0.1, math.Min(z, 2))
}
