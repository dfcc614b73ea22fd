package search

import (
	"math"
	"math/rand"
)

// carveWalls removes spherical chunks from the grid. The sphere count is
// floor(volume·density); each radius is drawn from [2, floor(min(dims)/div))
// and is 2 when that range is empty. Cells within the radius become walls.
func (g *Grid) carveWalls(rng *rand.Rand, density, radiusDivisor float64) {
	volume := g.dims.X * g.dims.Y * g.dims.Z
	count := int(math.Floor(float64(volume) * density))
	maxRadius := int(math.Floor(float64(min(g.dims.X, g.dims.Y, g.dims.Z)) / radiusDivisor))

	for i := 0; i < count; i++ {
		center := Vec3{rng.Intn(g.dims.X), rng.Intn(g.dims.Y), rng.Intn(g.dims.Z)}
		radius := minSphereRadius
		if maxRadius > minSphereRadius {
			radius += rng.Intn(maxRadius - minSphereRadius)
		}
		g.carveSphere(center, radius)
	}
}

// carveSphere walls every cell whose Euclidean distance to center is at most radius.
func (g *Grid) carveSphere(center Vec3, radius int) {
	r2 := radius * radius
	x0, x1 := max(0, center.X-radius), min(g.dims.X-1, center.X+radius)
	y0, y1 := max(0, center.Y-radius), min(g.dims.Y-1, center.Y+radius)
	z0, z1 := max(0, center.Z-radius), min(g.dims.Z-1, center.Z+radius)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				dx, dy, dz := x-center.X, y-center.Y, z-center.Z
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				p := Vec3{x, y, z}
				if n := g.Node(p); n.state != StateWall {
					n.state = StateWall
					g.walls++
				}
			}
		}
	}
}

// placeEndpoints picks Start then End uniformly at random, with replacement.
// Endpoints are placed after carving, so they are never walls.
func (g *Grid) placeEndpoints(rng *rand.Rand) {
	start := Vec3{rng.Intn(g.dims.X), rng.Intn(g.dims.Y), rng.Intn(g.dims.Z)}
	end := Vec3{rng.Intn(g.dims.X), rng.Intn(g.dims.Y), rng.Intn(g.dims.Z)}
	// Both positions are in bounds by construction.
	_ = g.SetEndpoints(start, end)
}
