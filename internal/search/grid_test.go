package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_InvalidDimensions(t *testing.T) {
	for _, dims := range []Vec3{{0, 1, 1}, {1, -2, 1}, {1, 1, 0}, {-1, -1, -1}} {
		g, err := NewGrid(dims)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "dims %s", dims)
		assert.Nil(t, g)
	}
}

func TestNewGrid_AllocatesEveryCell(t *testing.T) {
	g, err := NewGrid(Vec3{3, 4, 5}, WithoutWalls(), WithEndpoints(Vec3{0, 0, 0}, Vec3{2, 3, 4}))
	require.NoError(t, err)

	nodes := g.AllNodes()
	require.Len(t, nodes, 60)
	seen := make(map[Vec3]bool, len(nodes))
	for _, n := range nodes {
		assert.False(t, seen[n.Pos()], "duplicate node at %s", n.Pos())
		seen[n.Pos()] = true
		assert.Same(t, n, g.Node(n.Pos()))
	}
	assert.Equal(t, StateStart, g.At(0, 0, 0).State())
	assert.Equal(t, StateEnd, g.At(2, 3, 4).State())
	assert.Equal(t, 0, g.WallCount())
}

func TestNewGrid_EndpointsOutOfBounds(t *testing.T) {
	_, err := NewGrid(Vec3{2, 2, 2}, WithEndpoints(Vec3{0, 0, 0}, Vec3{2, 0, 0}))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestNewGrid_RandomEndpointsAreNeverWalls(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		g, err := NewGrid(Vec3{3 + i%9, 3 + i%7, 3 + i%6}, WithRand(rng))
		require.NoError(t, err)
		assert.Equal(t, StateEnd, g.End().State())
		if g.Start() != g.End() {
			assert.Equal(t, StateStart, g.Start().State())
		}
	}
}

func TestNewGrid_SeedIsDeterministic(t *testing.T) {
	a, err := NewGrid(Vec3{8, 8, 6}, WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	b, err := NewGrid(Vec3{8, 8, 6}, WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)

	an, bn := a.AllNodes(), b.AllNodes()
	for i := range an {
		assert.Equal(t, an[i].State(), bn[i].State(), "cell %s", an[i].Pos())
	}
}

func TestCarveWalls_SphereCountAndShape(t *testing.T) {
	g, err := NewGrid(Vec3{5, 5, 5}, WithoutWalls(), WithEndpoints(Vec3{}, Vec3{}))
	require.NoError(t, err)

	g.carveSphere(Vec3{2, 2, 2}, 2)
	// Lattice points with x²+y²+z² ≤ 4 inside a 5³ block: 33.
	assert.Equal(t, 33, g.WallCount())
	assert.Equal(t, StateWall, g.At(2, 2, 0).State())
	assert.Equal(t, StateWall, g.At(3, 3, 2).State())
	assert.Equal(t, StateWall, g.At(3, 3, 3).State())
	assert.NotEqual(t, StateWall, g.At(3, 3, 4).State())
	assert.NotEqual(t, StateWall, g.At(0, 0, 0).State())
}

func TestCarveWalls_Overlapping(t *testing.T) {
	g, err := NewGrid(Vec3{6, 6, 6}, WithoutWalls(), WithEndpoints(Vec3{}, Vec3{}))
	require.NoError(t, err)
	g.carveSphere(Vec3{3, 3, 3}, 2)
	once := g.WallCount()
	g.carveSphere(Vec3{3, 3, 3}, 2)
	assert.Equal(t, once, g.WallCount(), "recarving the same sphere must be idempotent")
}

func TestCarveWalls_DensityZero(t *testing.T) {
	g, err := NewGrid(Vec3{6, 6, 6}, WithDensity(0), WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	assert.Equal(t, 0, g.WallCount())
}

func TestNeighbors_InteriorCorner(t *testing.T) {
	g, err := NewGrid(Vec3{3, 3, 3}, WithoutWalls(), WithEndpoints(Vec3{}, Vec3{2, 2, 2}))
	require.NoError(t, err)

	assert.Len(t, g.Neighbors(g.At(1, 1, 1)), 26)
	assert.Len(t, g.Neighbors(g.At(0, 0, 0)), 7)
	assert.Len(t, g.Neighbors(g.At(1, 0, 0)), 11)
}

func TestNeighbors_SkipsWallsInOffsetOrder(t *testing.T) {
	g, err := NewGrid(Vec3{3, 3, 3}, WithoutWalls(), WithEndpoints(Vec3{}, Vec3{2, 2, 2}))
	require.NoError(t, err)
	require.NoError(t, g.SetWall(Vec3{0, 0, 1}))

	nbs := g.Neighbors(g.At(0, 0, 0))
	got := make([]Vec3, len(nbs))
	for i, n := range nbs {
		got[i] = n.Pos()
	}
	want := []Vec3{{0, 1, 0}, {0, 1, 1}, {1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1}}
	assert.Equal(t, want, got)
}

func TestNeighbors_Idempotent(t *testing.T) {
	g, err := NewGrid(Vec3{7, 6, 5}, WithRand(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	for _, n := range g.AllNodes() {
		assert.Equal(t, g.Neighbors(n), g.Neighbors(n))
	}
}

func TestSetEndpoints_Coincide(t *testing.T) {
	g, err := NewGrid(Vec3{2, 2, 2}, WithoutWalls(), WithEndpoints(Vec3{1, 1, 1}, Vec3{1, 1, 1}))
	require.NoError(t, err)
	assert.Same(t, g.Start(), g.End())
	assert.Equal(t, StateEnd, g.Start().State())
}

func TestSetEndpoints_ClearsWall(t *testing.T) {
	g, err := NewGrid(Vec3{2, 2, 2}, WithoutWalls(), WithEndpoints(Vec3{}, Vec3{1, 1, 1}))
	require.NoError(t, err)
	require.NoError(t, g.SetWall(Vec3{1, 0, 0}))
	require.Equal(t, 1, g.WallCount())

	require.NoError(t, g.SetEndpoints(Vec3{1, 0, 0}, Vec3{1, 1, 1}))
	assert.Equal(t, 0, g.WallCount())
	assert.Equal(t, StateFree, g.At(0, 0, 0).State())
	assert.Equal(t, StateStart, g.At(1, 0, 0).State())
}

func TestMaxCostSoFar(t *testing.T) {
	g, err := NewGrid(Vec3{2, 2, 2}, WithoutWalls(), WithEndpoints(Vec3{}, Vec3{1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, 0, g.MaxCostSoFar())
	g.At(1, 0, 0).SetCost(10)
	g.At(0, 1, 1).SetCost(14)
	assert.Equal(t, 14, g.MaxCostSoFar())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "wall", StateWall.String())
	assert.Equal(t, "unknown", State(99).String())
}
