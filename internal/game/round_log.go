package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

const (
	logPanelWidth = 360
	logMaxEntries = 60
	logLineHeight = 14
)

// RoundLogEntry is a single line in the round log.
type RoundLogEntry struct {
	Round   int
	Status  search.Status
	Message string
}

func (e RoundLogEntry) String() string {
	return fmt.Sprintf("%3d %-9s %s", e.Round, e.Status, e.Message)
}

// RoundLog is a ring buffer of finished rounds rendered on-screen.
type RoundLog struct {
	entries []RoundLogEntry
	head    int
	count   int
}

// NewRoundLog creates a round log with a fixed capacity.
func NewRoundLog() *RoundLog {
	return &RoundLog{
		entries: make([]RoundLogEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (rl *RoundLog) Add(round int, status search.Status, msg string) {
	rl.entries[rl.head] = RoundLogEntry{
		Round:   round,
		Status:  status,
		Message: msg,
	}
	rl.head = (rl.head + 1) % logMaxEntries
	if rl.count < logMaxEntries {
		rl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (rl *RoundLog) Recent() []RoundLogEntry {
	result := make([]RoundLogEntry, rl.count)
	for i := 0; i < rl.count; i++ {
		idx := (rl.head - rl.count + i + logMaxEntries) % logMaxEntries
		result[i] = rl.entries[idx]
	}
	return result
}

// statusColor tints the marker of a log row.
func statusColor(s search.Status) color.RGBA {
	switch s {
	case search.StatusSucceeded:
		return color.RGBA{R: 90, G: 200, B: 110, A: 255}
	case search.StatusExhausted:
		return color.RGBA{R: 220, G: 170, B: 60, A: 255}
	case search.StatusCanceled:
		return color.RGBA{R: 200, G: 70, B: 70, A: 255}
	}
	return color.RGBA{R: 120, G: 120, B: 120, A: 255}
}

// Draw renders the log panel at panelX, newest entries at the bottom.
func (rl *RoundLog) Draw(screen *ebiten.Image, face text.Face, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 235}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 70, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 18, color.RGBA{R: 22, G: 28, B: 34, A: 255}, false)
	drawText(screen, "ROUNDS", face, panelX+8, 3, color.White)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+logPanelWidth), 18, 1.0, color.RGBA{R: 60, G: 80, B: 90, A: 200}, false)

	entries := rl.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		if i == len(entries)-1 {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 38, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, statusColor(e.Status), false)
		drawText(screen, e.String(), face, panelX+12, y, color.RGBA{R: 210, G: 215, B: 220, A: 255})
		y += logLineHeight
	}
}
