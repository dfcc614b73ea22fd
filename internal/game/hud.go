package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// hudFace is the 7x13 bitmap font used for every overlay.
var hudFace = text.NewGoXFace(basicfont.Face7x13)

const hudLineHeight = 14

func drawText(dst *ebiten.Image, s string, face text.Face, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = hudLineHeight
	text.Draw(dst, s, face, op)
}

func speedLabel(speed float64) string {
	switch speed {
	case 0:
		return "PAUSED"
	case 1:
		return "1x"
	}
	return fmt.Sprintf("%gx", speed)
}

// hudLines describes the current round and the controls.
func (g *Game) hudLines() []string {
	lines := []string{fmt.Sprintf("SPEED: %s  P=pause  ,/. speed", speedLabel(g.speed))}
	if r := g.driver.Current(); r != nil {
		e := r.Engine()
		d := r.Grid().Dims()
		lines = append(lines,
			fmt.Sprintf("round %d  %dx%dx%d  walls=%d", r.Index(), d.X, d.Y, d.Z, r.Grid().WallCount()),
			fmt.Sprintf("%s  open=%d closed=%d", e.Status(), len(e.Open()), len(e.Closed())),
		)
		if e.Retraced() {
			lines = append(lines, fmt.Sprintf("path %d/%d  cost=%d", e.Marked(), len(e.Path()), e.PathCost()))
		}
	}
	lines = append(lines,
		"arrows=orbit  scroll/=/-=zoom",
		"N=next round  C=copy report  H=hide",
	)
	if g.status != "" {
		lines = append(lines, g.status)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	const padX, padY = 6, 4
	const charW = 7

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*hudLineHeight + padY*2)
	bx := float32(8)
	by := float32(g.height) - boxH - 8

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 10, A: 200}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 70, G: 90, B: 110, A: 180}, false)
	for i, line := range lines {
		drawText(screen, line, hudFace, int(bx)+padX, int(by)+padY+i*hudLineHeight, color.White)
	}
}
