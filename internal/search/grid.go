package search

import (
	"fmt"
	"math/rand"
	"time"
)

// Default obstacle parameters.
const (
	DefaultDensity       = 0.1
	DefaultRadiusDivisor = 2.5
	minSphereRadius      = 2
)

// Grid is a dense 3D block of nodes with one Start and one End.
// Obstacles and endpoints are fixed once NewGrid returns.
type Grid struct {
	dims  Vec3
	cells []Node
	start Vec3
	end   Vec3
	walls int
}

type gridConfig struct {
	rng           *rand.Rand
	density       float64
	radiusDivisor float64
	carve         bool
	endpoints     *[2]Vec3
}

// GridOption customises NewGrid.
type GridOption func(*gridConfig)

// WithRand supplies the random source used for carving and endpoint placement.
func WithRand(rng *rand.Rand) GridOption {
	return func(c *gridConfig) { c.rng = rng }
}

// WithDensity sets the fraction of the volume used as the sphere count.
func WithDensity(d float64) GridOption {
	return func(c *gridConfig) { c.density = d }
}

// WithRadiusDivisor sets the divisor applied to the smallest dimension to
// obtain the exclusive upper bound of sphere radii.
func WithRadiusDivisor(div float64) GridOption {
	return func(c *gridConfig) { c.radiusDivisor = div }
}

// WithoutWalls skips obstacle carving.
func WithoutWalls() GridOption {
	return func(c *gridConfig) { c.carve = false }
}

// WithEndpoints places Start and End at fixed positions instead of random ones.
func WithEndpoints(start, end Vec3) GridOption {
	return func(c *gridConfig) { c.endpoints = &[2]Vec3{start, end} }
}

// NewGrid allocates a dims.X×dims.Y×dims.Z grid of free nodes, carves
// spherical walls and places the endpoints. It fails only on a
// non-positive dimension or on fixed endpoints outside the grid.
func NewGrid(dims Vec3, opts ...GridOption) (*Grid, error) {
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDimensions, dims)
	}
	cfg := gridConfig{
		density:       DefaultDensity,
		radiusDivisor: DefaultRadiusDivisor,
		carve:         true,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- cosmetic only
	}

	g := &Grid{
		dims:  dims,
		cells: make([]Node, dims.X*dims.Y*dims.Z),
	}
	for x := 0; x < dims.X; x++ {
		for y := 0; y < dims.Y; y++ {
			for z := 0; z < dims.Z; z++ {
				p := Vec3{x, y, z}
				g.cells[g.index(p)] = Node{pos: p, state: StateFree}
			}
		}
	}

	if cfg.carve {
		g.carveWalls(cfg.rng, cfg.density, cfg.radiusDivisor)
	}
	if cfg.endpoints != nil {
		if err := g.SetEndpoints(cfg.endpoints[0], cfg.endpoints[1]); err != nil {
			return nil, err
		}
	} else {
		g.placeEndpoints(cfg.rng)
	}
	return g, nil
}

// index maps a position to its x-major slot in cells.
func (g *Grid) index(p Vec3) int {
	return (p.X*g.dims.Y+p.Y)*g.dims.Z + p.Z
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Vec3) bool {
	return p.X >= 0 && p.X < g.dims.X &&
		p.Y >= 0 && p.Y < g.dims.Y &&
		p.Z >= 0 && p.Z < g.dims.Z
}

func (g *Grid) Dims() Vec3 { return g.dims }

// Node returns the node at p, or nil when p is out of bounds.
func (g *Grid) Node(p Vec3) *Node {
	if !g.InBounds(p) {
		return nil
	}
	return &g.cells[g.index(p)]
}

// At is shorthand for Node(Vec3{x, y, z}).
func (g *Grid) At(x, y, z int) *Node {
	return g.Node(Vec3{x, y, z})
}

func (g *Grid) Start() *Node { return &g.cells[g.index(g.start)] }
func (g *Grid) End() *Node { return &g.cells[g.index(g.end)] }

// WallCount returns the number of wall cells.
func (g *Grid) WallCount() int { return g.walls }

// AllNodes returns every node in x-major order. The slice is fresh but the
// nodes are the grid's own.
func (g *Grid) AllNodes() []*Node {
	out := make([]*Node, len(g.cells))
	for i := range g.cells {
		out[i] = &g.cells[i]
	}
	return out
}

// MaxCostSoFar returns the largest cost so far of any node, 0 before a search.
func (g *Grid) MaxCostSoFar() int {
	maxCost := 0
	for i := range g.cells {
		if g.cells[i].g > maxCost {
			maxCost = g.cells[i].g
		}
	}
	return maxCost
}

// ParentOf resolves the node's back-reference, or nil when it has none.
func (g *Grid) ParentOf(n *Node) *Node {
	p, ok := n.Parent()
	if !ok {
		return nil
	}
	return g.Node(p)
}

// neighborOffsets lists the 26 offsets of the 3×3×3 block in (dx,dy,dz)
// ascending order.
var neighborOffsets = func() []Vec3 {
	offs := make([]Vec3, 0, 26)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				offs = append(offs, Vec3{dx, dy, dz})
			}
		}
	}
	return offs
}()

// Neighbors returns the in-bounds, non-wall cells adjacent to n, including
// diagonals, in offset order.
func (g *Grid) Neighbors(n *Node) []*Node {
	out := make([]*Node, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		nb := g.Node(n.pos.Add(d))
		if nb == nil || !nb.Walkable() {
			continue
		}
		out = append(out, nb)
	}
	return out
}

// Distance returns the weighted distance between two nodes.
func (g *Grid) Distance(a, b *Node) int {
	return Distance(a.pos, b.pos)
}

// SetWall turns the cell at p into a wall.
func (g *Grid) SetWall(p Vec3) error {
	n := g.Node(p)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	if n.state != StateWall {
		g.walls++
	}
	n.state = StateWall
	return nil
}

// SetEndpoints moves Start and End. Previous endpoint cells revert to free;
// the new cells lose any wall. End wins when both positions coincide.
func (g *Grid) SetEndpoints(start, end Vec3) error {
	if !g.InBounds(start) {
		return fmt.Errorf("%w: start %s", ErrOutOfBounds, start)
	}
	if !g.InBounds(end) {
		return fmt.Errorf("%w: end %s", ErrOutOfBounds, end)
	}
	for _, p := range []Vec3{g.start, g.end} {
		if n := g.Node(p); n.state == StateStart || n.state == StateEnd {
			n.state = StateFree
		}
	}
	g.setState(start, StateStart)
	g.setState(end, StateEnd)
	g.start, g.end = start, end
	return nil
}

func (g *Grid) setState(p Vec3, s State) {
	n := g.Node(p)
	if n.state == StateWall && s != StateWall {
		g.walls--
	}
	n.state = s
}

// resetSearch clears the bookkeeping of every node before a new search.
func (g *Grid) resetSearch() {
	for i := range g.cells {
		g.cells[i].reset()
	}
}
