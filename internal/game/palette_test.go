package game

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

func paletteGrid(t *testing.T) *search.Grid {
	t.Helper()
	g, err := search.NewGrid(search.Vec3{X: 3, Y: 1, Z: 1},
		search.WithoutWalls(),
		search.WithEndpoints(search.Vec3{}, search.Vec3{X: 2}))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestFillColor_ByState(t *testing.T) {
	p := Palettes[2]
	g := paletteGrid(t)

	if got := p.FillColor(g.Start(), 0); got != p.FinalPath {
		t.Fatalf("start colour = %v, want final path colour", got)
	}
	if got := p.FillColor(g.End(), 0); got != p.FinalPath {
		t.Fatalf("end colour = %v, want final path colour", got)
	}
	mid := g.At(1, 0, 0)
	if got := p.FillColor(mid, 0); got != p.Regular {
		t.Fatalf("untouched free node = %v, want regular colour", got)
	}
	mid.SetState(search.StatePath)
	if got := p.FillColor(mid, 0); got != p.FinalPath {
		t.Fatalf("path node = %v, want final path colour", got)
	}
}

func TestFillColor_CostLerp(t *testing.T) {
	p := Palette{Regular: rgb(0, 0, 0), Working: rgb(200, 100, 50)}
	g := paletteGrid(t)
	n := g.At(1, 0, 0)

	n.SetCost(10)
	if got := p.FillColor(n, 20); got != rgb(100, 50, 25) {
		t.Fatalf("half cost = %v", got)
	}
	n.SetCost(20)
	if got := p.FillColor(n, 20); got != p.Working {
		t.Fatalf("max cost = %v, want working colour", got)
	}
}

func TestFillColor_UnknownStateIsBlack(t *testing.T) {
	g := paletteGrid(t)
	n := g.At(1, 0, 0)
	n.SetState(search.State(99))
	if got := Palettes[0].FillColor(n, 10); got != (color.RGBA{A: 255}) {
		t.Fatalf("unknown state = %v, want opaque black", got)
	}
}

func TestLerpRGBA_Clamps(t *testing.T) {
	a, b := rgb(10, 20, 30), rgb(110, 120, 130)
	if got := lerpRGBA(a, b, -1); got != a {
		t.Fatalf("t<0 = %v", got)
	}
	if got := lerpRGBA(a, b, 2); got != b {
		t.Fatalf("t>1 = %v", got)
	}
}

func TestRandomPalette_CoversSchemes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := map[Palette]bool{}
	for i := 0; i < 500; i++ {
		seen[RandomPalette(rng)] = true
	}
	if len(seen) != len(Palettes) {
		t.Fatalf("saw %d of %d palettes", len(seen), len(Palettes))
	}
}
