package search

import "fmt"

// Vec3 is an integer grid position.
type Vec3 struct {
	X, Y, Z int
}

// String formats the position as "(x,y,z)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Add returns v offset by d.
func (v Vec3) Add(d Vec3) Vec3 {
	return Vec3{v.X + d.X, v.Y + d.Y, v.Z + d.Z}
}

// State is the occupancy state of a grid cell.
type State uint8

const (
	StateFree State = iota
	StateWall
	StateStart
	StateEnd
	StatePath
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateWall:
		return "wall"
	case StateStart:
		return "start"
	case StateEnd:
		return "end"
	case StatePath:
		return "path"
	}
	return "unknown"
}

// Node is a single grid cell plus the bookkeeping of the current search.
//
// The parent is kept as a grid position rather than a pointer; resolve it
// with Grid.ParentOf.
type Node struct {
	pos       Vec3
	state     State
	g         int // cost so far from Start
	h         int // estimated remaining cost to End
	parent    Vec3
	hasParent bool
	visited   bool
}

func (n *Node) Pos() Vec3 { return n.pos }
func (n *Node) State() State { return n.state }
func (n *Node) Cost() int { return n.g }
func (n *Node) Heuristic() int { return n.h }
func (n *Node) F() int { return n.g + n.h }
func (n *Node) Visited() bool { return n.visited }
func (n *Node) SetState(s State) { n.state = s }

// SetCost records the cost so far and marks the node as visited.
func (n *Node) SetCost(g int) {
	n.g = g
	n.visited = true
}

func (n *Node) SetHeuristic(h int) { n.h = h }

// SetParent records the position this node was reached from.
func (n *Node) SetParent(p Vec3) {
	n.parent = p
	n.hasParent = true
}

// Parent returns the position this node was reached from, if any.
func (n *Node) Parent() (Vec3, bool) {
	return n.parent, n.hasParent
}

// Walkable reports whether the search may enter this node.
func (n *Node) Walkable() bool {
	return n.state != StateWall
}

// reset clears search bookkeeping, leaving position and state untouched.
func (n *Node) reset() {
	n.g, n.h = 0, 0
	n.parent = Vec3{}
	n.hasParent = false
	n.visited = false
}
