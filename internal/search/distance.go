package search

// Move costs for 26-connectivity, roughly 10·(1, √2, √3).
const (
	CostStraight   = 10
	CostDiagonal2D = 14
	CostDiagonal3D = 17
)

// Distance returns the weighted octile distance between two positions:
// as many 3D-diagonal moves as the smallest axis delta, then 2D-diagonal
// moves up to the middle delta, then straight moves for the remainder.
func Distance(a, b Vec3) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	dz := abs(a.Z - b.Z)

	largest := max(dx, dy, dz)
	smallest := min(dx, dy, dz)
	middle := dx + dy + dz - largest - smallest

	return CostDiagonal3D*smallest +
		CostDiagonal2D*(middle-smallest) +
		CostStraight*(largest-middle)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
