package game

import (
	"image/color"
	"math/rand"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

// Palette is the colour scheme of one round.
type Palette struct {
	Background color.RGBA
	FinalPath  color.RGBA // path, start and end nodes
	Regular    color.RGBA // free nodes the search has not reached
	Working    color.RGBA // free nodes at the highest cost so far
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }
func grey(v uint8) color.RGBA { return rgb(v, v, v) }

// unknownColor is drawn for a node state the renderer does not know.
var unknownColor = rgb(0, 0, 0)

// Palettes are the schemes a round picks from.
var Palettes = [...]Palette{
	{Background: rgb(228, 230, 195), FinalPath: rgb(215, 255, 169), Regular: rgb(137, 152, 120), Working: rgb(247, 247, 247)},
	{Background: rgb(91, 35, 51), FinalPath: grey(255), Regular: rgb(67, 77, 74), Working: rgb(242, 67, 51)},
	{Background: rgb(61, 84, 103), FinalPath: rgb(219, 84, 97), Regular: rgb(241, 237, 238), Working: rgb(138, 162, 158)},
	{Background: rgb(31, 34, 50), FinalPath: rgb(253, 232, 233), Regular: rgb(89, 100, 117), Working: rgb(188, 158, 193)},
	{Background: rgb(104, 83, 77), FinalPath: grey(255), Regular: rgb(129, 114, 106), Working: rgb(244, 254, 193)},
	{Background: rgb(32, 30, 31), FinalPath: rgb(255, 64, 0), Regular: rgb(254, 239, 221), Working: rgb(80, 178, 192)},
	{Background: rgb(53, 61, 47), FinalPath: rgb(220, 240, 252), Regular: rgb(107, 163, 104), Working: rgb(220, 240, 252)},
	{Background: rgb(41, 47, 54), FinalPath: rgb(255, 107, 107), Regular: grey(225), Working: rgb(78, 205, 196)},
	{Background: rgb(76, 59, 77), FinalPath: rgb(97, 201, 168), Regular: rgb(165, 56, 96), Working: rgb(173, 168, 182)},
	{Background: rgb(30, 26, 29), FinalPath: grey(244), Regular: rgb(127, 83, 75), Working: rgb(244, 184, 96)},
}

// RandomPalette picks a scheme uniformly.
func RandomPalette(rng *rand.Rand) Palette {
	return Palettes[rng.Intn(len(Palettes))]
}

// FillColor returns the colour of n. Free nodes the search has costed are
// blended from Regular towards Working by cost/maxCost.
func (p Palette) FillColor(n *search.Node, maxCost int) color.RGBA {
	switch n.State() {
	case search.StateFree:
		if n.Cost() == 0 || maxCost <= 0 {
			return p.Regular
		}
		return lerpRGBA(p.Regular, p.Working, float64(n.Cost())/float64(maxCost))
	case search.StatePath, search.StateStart, search.StateEnd:
		return p.FinalPath
	case search.StateWall:
		return p.Background
	}
	return unknownColor
}

// lerpRGBA blends a towards b; t is clamped to [0,1].
func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = max(0, min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
