package search

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runToEnd steps e until PauseDone and returns the pauses seen.
func runToEnd(t *testing.T, e *Engine) []Pause {
	t.Helper()
	var pauses []Pause
	for i := 0; i < 1_000_000; i++ {
		p, err := e.Step()
		require.NoError(t, err)
		pauses = append(pauses, p)
		if p == PauseDone {
			return pauses
		}
	}
	t.Fatal("engine did not finish")
	return nil
}

func positions(nodes []*Node) []Vec3 {
	out := make([]Vec3, len(nodes))
	for i, n := range nodes {
		out[i] = n.Pos()
	}
	return out
}

func openGrid(t *testing.T, dims, start, end Vec3) *Grid {
	t.Helper()
	g, err := NewGrid(dims, WithoutWalls(), WithEndpoints(start, end))
	require.NoError(t, err)
	return g
}

func TestEngine_TwoCellLine(t *testing.T) {
	g := openGrid(t, Vec3{1, 1, 2}, Vec3{0, 0, 0}, Vec3{0, 0, 1})
	assert.Equal(t, 10, g.Distance(g.Start(), g.End()))

	e := NewEngine(g)
	require.NoError(t, e.Start())
	pauses := runToEnd(t, e)

	assert.Equal(t, []Pause{PauseSolve, PauseRetrace, PauseDone}, pauses)
	assert.Equal(t, StatusSucceeded, e.Status())
	assert.Equal(t, 1, e.Relaxations())
	assert.Equal(t, []*Node{g.End()}, e.Path())
	assert.Equal(t, 10, e.PathCost())
	assert.Equal(t, StateEnd, g.End().State())
	assert.Equal(t, StateStart, g.Start().State())
}

func TestEngine_CubeCornerDiagonal(t *testing.T) {
	g := openGrid(t, Vec3{2, 2, 2}, Vec3{0, 0, 0}, Vec3{1, 1, 1})
	assert.Equal(t, 17, g.Distance(g.Start(), g.End()))

	e := NewEngine(g)
	status, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, status)
	assert.LessOrEqual(t, e.PathCost(), 17)
	require.Len(t, e.Path(), 1)
	assert.Same(t, g.End(), e.Path()[0])
	// Start plus the End pop.
	assert.Len(t, e.Closed(), 2)
}

func TestEngine_StartEqualsEnd(t *testing.T) {
	g := openGrid(t, Vec3{3, 3, 3}, Vec3{1, 1, 1}, Vec3{1, 1, 1})
	e := NewEngine(g)
	require.NoError(t, e.Start())

	p, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, PauseDone, p)
	assert.Equal(t, StatusSucceeded, e.Status())
	assert.Empty(t, e.Path())
	assert.True(t, e.Retraced())
	assert.Equal(t, 0, e.PathCost())
}

func TestEngine_EverythingButStartIsWall(t *testing.T) {
	g := openGrid(t, Vec3{3, 3, 3}, Vec3{1, 1, 1}, Vec3{0, 0, 0})
	for _, n := range g.AllNodes() {
		if n != g.Start() {
			require.NoError(t, g.SetWall(n.Pos()))
		}
	}
	e := NewEngine(g)
	status, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusExhausted, status)
	assert.Empty(t, e.Path())
	assert.Equal(t, []*Node{g.Start()}, e.Closed())
	assert.Equal(t, 0, e.Relaxations())
}

func TestEngine_EnclosedEnd(t *testing.T) {
	g := openGrid(t, Vec3{5, 5, 5}, Vec3{0, 0, 0}, Vec3{2, 2, 2})
	for _, d := range neighborOffsets {
		require.NoError(t, g.SetWall(Vec3{2, 2, 2}.Add(d)))
	}
	e := NewEngine(g)
	status, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusExhausted, status)
	assert.Empty(t, e.Path())
	assert.Empty(t, e.Open())
	assert.False(t, g.End().Visited())
	// Every reachable free cell was expanded: 125 - 26 walls - End.
	assert.Len(t, e.Closed(), 98)
}

func TestEngine_RetraceAroundWall(t *testing.T) {
	// A 1-thick wall plane at x=1 with a single gap at (1,2,0).
	g := openGrid(t, Vec3{3, 3, 1}, Vec3{0, 0, 0}, Vec3{2, 0, 0})
	require.NoError(t, g.SetWall(Vec3{1, 0, 0}))
	require.NoError(t, g.SetWall(Vec3{1, 1, 0}))

	e := NewEngine(g)
	status, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, status)

	want := []Vec3{{0, 1, 0}, {1, 2, 0}, {2, 1, 0}, {2, 0, 0}}
	if diff := cmp.Diff(want, positions(e.Path())); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 10+14+14+10, e.PathCost())
}

func TestEngine_MarksPathFrontToBack(t *testing.T) {
	g := openGrid(t, Vec3{6, 1, 1}, Vec3{0, 0, 0}, Vec3{5, 0, 0})
	e := NewEngine(g)
	require.NoError(t, e.Start())

	for e.Status() == StatusRunning {
		_, err := e.Step()
		require.NoError(t, err)
	}
	require.Equal(t, StatusSucceeded, e.Status())
	path := e.Path()
	require.Len(t, path, 5)
	// The step that reaches End already marks the first node.
	assert.Equal(t, 1, e.Marked())
	assert.Equal(t, StatePath, path[0].State())

	for i := 1; i < len(path); i++ {
		assert.NotEqual(t, StatePath, path[i].State(), "node %d marked early", i)
		p, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, PauseRetrace, p)
		assert.Equal(t, i+1, e.Marked())
	}
	assert.Equal(t, StateEnd, path[len(path)-1].State())
	assert.True(t, e.Retraced())

	p, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, PauseDone, p)
}

func TestEngine_OpenClosedDisjointAfterEveryStep(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 20; round++ {
		g, err := NewGrid(Vec3{3 + rng.Intn(9), 3 + rng.Intn(9), 3 + rng.Intn(6)}, WithRand(rng))
		require.NoError(t, err)
		e := NewEngine(g)
		require.NoError(t, e.Start())
		for {
			p, err := e.Step()
			require.NoError(t, err)
			for _, n := range e.Open() {
				require.False(t, e.InClosed(n), "round %d: %s in both sets", round, n.Pos())
			}
			if p == PauseDone {
				break
			}
		}
	}
}

func TestEngine_ParentChainsReachStart(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for round := 0; round < 20; round++ {
		g, err := NewGrid(Vec3{9, 9, 6}, WithRand(rng))
		require.NoError(t, err)
		e := NewEngine(g)
		_, err = e.Run(context.Background())
		require.NoError(t, err)

		for _, n := range g.AllNodes() {
			if !n.Visited() {
				continue
			}
			hops := 0
			for cur := n; cur != g.Start(); cur = g.ParentOf(cur) {
				require.NotNil(t, cur, "chain from %s broke", n.Pos())
				hops++
				require.Less(t, hops, len(g.AllNodes()), "chain from %s cycles", n.Pos())
			}
		}
	}
}

func TestEngine_OpenGridPathIsContiguousAndOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for round := 0; round < 25; round++ {
		dims := Vec3{2 + rng.Intn(8), 2 + rng.Intn(8), 2 + rng.Intn(6)}
		start := Vec3{rng.Intn(dims.X), rng.Intn(dims.Y), rng.Intn(dims.Z)}
		end := Vec3{rng.Intn(dims.X), rng.Intn(dims.Y), rng.Intn(dims.Z)}
		g := openGrid(t, dims, start, end)

		e := NewEngine(g)
		status, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, StatusSucceeded, status)

		assert.Equal(t, Distance(start, end), e.PathCost(), "round %d", round)
		prev := start
		for _, n := range e.Path() {
			d := Distance(prev, n.Pos())
			assert.Contains(t, []int{CostStraight, CostDiagonal2D, CostDiagonal3D}, d, "gap between %s and %s", prev, n.Pos())
			prev = n.Pos()
		}
		if start != end {
			assert.Equal(t, end, prev)
		}
	}
}

// linearSearch replays the search with plain slices and a full scan for
// the cheapest open node, preferring the earliest node on ties.
func linearSearch(g *Grid) (closed []Vec3, ok bool) {
	g.resetSearch()
	open := []*Node{g.Start()}
	closedSet := map[*Node]bool{}
	contains := func(list []*Node, n *Node) int {
		for i, m := range list {
			if m == n {
				return i
			}
		}
		return -1
	}
	for len(open) > 0 {
		cur := open[0]
		for _, n := range open[1:] {
			if n.F() < cur.F() || (n.F() == cur.F() && n.Heuristic() < cur.Heuristic()) {
				cur = n
			}
		}
		i := contains(open, cur)
		open = append(open[:i], open[i+1:]...)
		closedSet[cur] = true
		closed = append(closed, cur.Pos())
		if cur.State() == StateEnd {
			return closed, true
		}
		for _, nb := range g.Neighbors(cur) {
			if closedSet[nb] {
				continue
			}
			tentative := cur.Cost() + g.Distance(cur, nb)
			inOpen := contains(open, nb) >= 0
			if tentative < nb.Cost() || !inOpen {
				nb.SetCost(tentative)
				nb.SetHeuristic(g.Distance(nb, g.End()))
				nb.SetParent(cur.Pos())
				if !inOpen {
					open = append(open, nb)
				}
			}
		}
	}
	return closed, false
}

func TestEngine_SelectionOrderMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for round := 0; round < 30; round++ {
		seed := rng.Int63()
		dims := Vec3{3 + rng.Intn(9), 3 + rng.Intn(9), 3 + rng.Intn(6)}

		g1, err := NewGrid(dims, WithRand(rand.New(rand.NewSource(seed))))
		require.NoError(t, err)
		wantClosed, wantOK := linearSearch(g1)

		g2, err := NewGrid(dims, WithRand(rand.New(rand.NewSource(seed))))
		require.NoError(t, err)
		e := NewEngine(g2)
		status, err := e.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, wantOK, status == StatusSucceeded, "round %d", round)
		if diff := cmp.Diff(wantClosed, positions(e.Closed())); diff != "" {
			t.Fatalf("round %d expansion order mismatch (-linear +heap):\n%s", round, diff)
		}
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	g := openGrid(t, Vec3{2, 2, 2}, Vec3{}, Vec3{1, 1, 1})
	e := NewEngine(g)
	assert.Equal(t, StatusIdle, e.Status())

	_, err := e.Step()
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, e.Start())
	assert.ErrorIs(t, e.Start(), ErrAlreadyStarted)
	assert.Equal(t, StatusRunning, e.Status())
}

func TestEngine_RunCanceled(t *testing.T) {
	g := openGrid(t, Vec3{8, 8, 8}, Vec3{}, Vec3{7, 7, 7})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(g)
	status, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCanceled, status)

	p, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, PauseDone, p)
}

func TestEngine_CancelAfterTerminalIsNoop(t *testing.T) {
	g := openGrid(t, Vec3{1, 1, 2}, Vec3{}, Vec3{0, 0, 1})
	e := NewEngine(g)
	_, err := e.Run(context.Background())
	require.NoError(t, err)
	e.Cancel()
	assert.Equal(t, StatusSucceeded, e.Status())
}
