package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_UnitSteps(t *testing.T) {
	origin := Vec3{}
	cases := []struct {
		name string
		to   Vec3
		want int
	}{
		{"axis x", Vec3{1, 0, 0}, 10},
		{"axis z", Vec3{0, 0, -1}, 10},
		{"face diagonal", Vec3{1, 1, 0}, 14},
		{"face diagonal yz", Vec3{0, -1, 1}, 14},
		{"corner diagonal", Vec3{1, 1, 1}, 17},
		{"corner diagonal mixed", Vec3{-1, 1, -1}, 17},
		{"same cell", Vec3{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Distance(origin, tc.to))
		})
	}
}

func TestDistance_Composite(t *testing.T) {
	// deltas (5,3,1): 1 corner move, 2 face moves, 2 straight moves.
	assert.Equal(t, 17+2*14+2*10, Distance(Vec3{0, 0, 0}, Vec3{5, 3, 1}))
	// deltas (4,4,4): pure corner diagonal.
	assert.Equal(t, 4*17, Distance(Vec3{1, 2, 3}, Vec3{5, 6, 7}))
}

func TestDistance_Symmetric(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {3, 1, 4}, {1, 5, 9}, {2, 6, 5}, {-3, 5, 8}, {9, 7, 9}}
	for _, a := range pts {
		for _, b := range pts {
			assert.Equal(t, Distance(a, b), Distance(b, a), "distance %s<->%s", a, b)
		}
	}
}
