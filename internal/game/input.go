package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	zoomMin, zoomMax   = 0.3, 4.0
	pitchMin, pitchMax = 0.05, 1.4
	orbitSpeed         = 0.03 // radians per frame while an arrow key is held
)

// pressed reports a key going down this frame and records its state for
// the next one.
func (g *Game) pressed(current map[ebiten.Key]bool, k ebiten.Key) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

// handleInput processes camera and playback keys. Toggles are edge-triggered.
func (g *Game) handleInput() {
	current := map[ebiten.Key]bool{}

	if g.pressed(current, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(current, ebiten.KeyR) {
		g.rotate = !g.rotate
	}
	if g.pressed(current, ebiten.KeyC) {
		g.copyReport()
	}
	if g.pressed(current, ebiten.KeyN) {
		g.driver.Preempt()
	}

	// Orbit: left/right yaw, up/down pitch.
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.camera.Yaw -= orbitSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.camera.Yaw += orbitSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.camera.Pitch += orbitSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.camera.Pitch -= orbitSpeed
	}
	g.camera.Pitch = math.Max(pitchMin, math.Min(pitchMax, g.camera.Pitch))

	// Zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.zoom *= math.Pow(1.12, wy)
	}
	if g.pressed(current, ebiten.KeyEqual) {
		g.zoom *= 1.25
	}
	if g.pressed(current, ebiten.KeyMinus) {
		g.zoom /= 1.25
	}
	g.zoom = math.Max(zoomMin, math.Min(zoomMax, g.zoom))

	// Playback: P pause/resume, , slower, . faster.
	if g.pressed(current, ebiten.KeyP) {
		if g.speed > 0 {
			g.speed = 0
		} else {
			g.speed = 1
		}
	}
	if g.pressed(current, ebiten.KeyComma) {
		g.speed = stepSpeed(g.speed, -1)
	}
	if g.pressed(current, ebiten.KeyPeriod) {
		g.speed = stepSpeed(g.speed, +1)
	}

	g.prevKeys = current
}

// stepSpeed moves one notch along speeds from the notch nearest s.
func stepSpeed(s float64, dir int) float64 {
	idx := 0
	for i, v := range speeds {
		if math.Abs(v-s) < math.Abs(speeds[idx]-s) {
			idx = i
		}
	}
	idx = max(0, min(len(speeds)-1, idx+dir))
	return speeds[idx]
}
