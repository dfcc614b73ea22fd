package search

import (
	"container/heap"
	"context"
)

// Status is the lifecycle state of an Engine.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded // End was reached
	StatusExhausted // open set emptied without reaching End
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusExhausted:
		return "exhausted"
	case StatusCanceled:
		return "canceled"
	}
	return "unknown"
}

// Terminal reports whether no further search work will happen.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusExhausted || s == StatusCanceled
}

// Pause tells the caller how long to wait before the next Step.
type Pause uint8

const (
	PauseSolve   Pause = iota // a neighbour was just relaxed
	PauseRetrace              // a path node was just marked
	PauseDone                 // nothing left to do
)

func (p Pause) String() string {
	switch p {
	case PauseSolve:
		return "solve"
	case PauseRetrace:
		return "retrace"
	case PauseDone:
		return "done"
	}
	return "unknown"
}

// Engine is a resumable best-first search over a Grid. Each Step advances
// the search to its next suspension point so that callers can pace it and
// observe intermediate costs.
type Engine struct {
	grid   *Grid
	status Status

	open    openList
	openIdx map[Vec3]*openItem
	seq     uint64

	closed      map[Vec3]struct{}
	closedOrder []*Node

	current *Node
	pending []*Node // neighbours of current not yet relaxed

	path   []*Node
	marked int

	expansions  int
	relaxations int
}

// NewEngine returns an idle engine bound to g.
func NewEngine(g *Grid) *Engine {
	return &Engine{
		grid:    g,
		openIdx: make(map[Vec3]*openItem),
		closed:  make(map[Vec3]struct{}),
	}
}

// Start clears the grid's search bookkeeping and seeds the open set with Start.
func (e *Engine) Start() error {
	if e.status != StatusIdle {
		return ErrAlreadyStarted
	}
	e.grid.resetSearch()
	start := e.grid.Start()
	start.SetCost(0)
	start.SetHeuristic(e.grid.Distance(start, e.grid.End()))
	e.push(start)
	e.status = StatusRunning
	return nil
}

// Step runs until the next suspension point and reports which one it hit.
//
// While running, a step relaxes one neighbour of the current node
// (PauseSolve); popping the next node and enumerating its neighbours
// happen inside the same step. After success each step marks one path node
// front-to-back (PauseRetrace). PauseDone is returned once terminal and
// fully marked.
func (e *Engine) Step() (Pause, error) {
	switch e.status {
	case StatusIdle:
		return PauseDone, ErrNotStarted
	case StatusSucceeded:
		return e.markNext(), nil
	case StatusExhausted, StatusCanceled:
		return PauseDone, nil
	}

	for {
		if len(e.pending) > 0 {
			nb := e.pending[0]
			e.pending = e.pending[1:]
			if e.InClosed(nb) {
				continue
			}
			e.relax(nb)
			return PauseSolve, nil
		}
		if e.open.Len() == 0 {
			e.current = nil
			e.status = StatusExhausted
			return PauseDone, nil
		}
		if e.expand() {
			e.status = StatusSucceeded
			e.retrace()
			return e.markNext(), nil
		}
	}
}

// Run steps the engine to completion without pausing, checking ctx at every
// suspension point.
func (e *Engine) Run(ctx context.Context) (Status, error) {
	if e.status == StatusIdle {
		if err := e.Start(); err != nil {
			return e.status, err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			e.Cancel()
			return e.status, err
		}
		p, err := e.Step()
		if err != nil {
			return e.status, err
		}
		if p == PauseDone {
			return e.status, nil
		}
	}
}

// Cancel stops a search that has not reached a terminal status.
func (e *Engine) Cancel() {
	if e.status.Terminal() {
		return
	}
	e.status = StatusCanceled
	e.pending = nil
}

// expand pops the cheapest open node, closes it and queues its neighbours.
// It reports whether the popped node is End.
func (e *Engine) expand() bool {
	it := heap.Pop(&e.open).(*openItem)
	cur := it.node
	delete(e.openIdx, cur.pos)
	e.closed[cur.pos] = struct{}{}
	e.closedOrder = append(e.closedOrder, cur)
	e.current = cur
	e.expansions++

	if cur.state == StateEnd {
		e.pending = nil
		return true
	}
	e.pending = e.grid.Neighbors(cur)
	return false
}

// relax offers current as the parent of nb. A node outside the open set
// here has never been reached, since closed neighbours are skipped.
func (e *Engine) relax(nb *Node) {
	e.relaxations++
	tentative := e.current.g + e.grid.Distance(e.current, nb)
	it, inOpen := e.openIdx[nb.pos]
	if inOpen && tentative >= nb.g {
		return
	}
	nb.SetCost(tentative)
	nb.SetHeuristic(e.grid.Distance(nb, e.grid.End()))
	nb.SetParent(e.current.pos)
	if inOpen {
		heap.Fix(&e.open, it.index)
		return
	}
	e.push(nb)
}

func (e *Engine) push(n *Node) {
	it := &openItem{node: n, seq: e.seq}
	e.seq++
	heap.Push(&e.open, it)
	e.openIdx[n.pos] = it
}

// retrace follows parents from End back to Start and stores the route,
// excluding Start and including End, in walking order.
func (e *Engine) retrace() {
	start := e.grid.start
	var path []*Node
	// A parent chain cannot be longer than the grid.
	for n, hops := e.grid.End(), 0; n != nil && n.pos != start && hops < len(e.grid.cells); hops++ {
		path = append(path, n)
		n = e.grid.ParentOf(n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	e.path = path
	e.marked = 0
}

// markNext marks the next unmarked path node. End keeps its own state but
// still consumes a step.
func (e *Engine) markNext() Pause {
	if e.marked >= len(e.path) {
		return PauseDone
	}
	n := e.path[e.marked]
	e.marked++
	if n.state != StateEnd && n.state != StateStart {
		n.state = StatePath
	}
	return PauseRetrace
}

func (e *Engine) Grid() *Grid { return e.grid }
func (e *Engine) Status() Status { return e.status }
func (e *Engine) Current() *Node { return e.current }
func (e *Engine) Expansions() int { return e.expansions }

// Relaxations counts neighbour evaluations, i.e. PauseSolve steps.
func (e *Engine) Relaxations() int { return e.relaxations }

// InOpen reports whether n is waiting in the open set.
func (e *Engine) InOpen(n *Node) bool {
	_, ok := e.openIdx[n.pos]
	return ok
}

// InClosed reports whether n has been expanded.
func (e *Engine) InClosed(n *Node) bool {
	_, ok := e.closed[n.pos]
	return ok
}

// Open returns the nodes in the open set in no particular order.
func (e *Engine) Open() []*Node {
	out := make([]*Node, len(e.open))
	for i, it := range e.open {
		out[i] = it.node
	}
	return out
}

// Closed returns the expanded nodes in expansion order.
func (e *Engine) Closed() []*Node {
	return append([]*Node(nil), e.closedOrder...)
}

// Path returns the retraced route from the node after Start to End.
// It is empty unless the search succeeded.
func (e *Engine) Path() []*Node {
	return append([]*Node(nil), e.path...)
}

// PathCost is the cost so far of End after a successful search, 0 otherwise.
func (e *Engine) PathCost() int {
	if e.status != StatusSucceeded {
		return 0
	}
	return e.grid.End().g
}

// Marked returns how many path nodes have been marked so far.
func (e *Engine) Marked() int { return e.marked }

// Retraced reports whether every path node has been marked.
func (e *Engine) Retraced() bool {
	return e.status == StatusSucceeded && e.marked >= len(e.path)
}
