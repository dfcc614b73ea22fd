package game

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sphere-Search/internal/config"
	"github.com/Garsondee/Sphere-Search/internal/logging"
	"github.com/Garsondee/Sphere-Search/internal/round"
	"github.com/Garsondee/Sphere-Search/internal/search"
)

// Default window size, log panel included.
const (
	WindowWidth  = 1440
	WindowHeight = 900
)

// speeds are the playback multipliers selectable with , and .
var speeds = []float64{0, 0.25, 0.5, 1, 2, 4, 8}

// sprite is one node ready to be drawn.
type sprite struct {
	p   Projected
	col color.RGBA
}

// Game renders the rounds of a Driver. It owns the virtual clock: every
// Update advances the scheduler by one frame of scaled time, so all search
// callbacks run on the ebiten update goroutine.
type Game struct {
	cfg      config.Config
	log      *slog.Logger
	sched    *round.TickScheduler
	driver   *round.Driver
	roundLog *RoundLog
	rng      *rand.Rand

	shown   *round.Round // round the palette was picked for
	palette Palette
	sprites []sprite

	width    int
	height   int
	camera   Camera
	zoom     float64 // user zoom on top of the per-round fit
	rotate   bool    // idle yaw rotation
	speed    float64
	showHUD  bool
	prevKeys map[ebiten.Key]bool

	status      string // transient HUD message
	statusUntil time.Duration
	copyText    func(string) error
}

// Options are the optional collaborators of a Game.
type Options struct {
	Logger  *slog.Logger
	Metrics *round.Metrics
	Events  *round.EventLog
}

// New creates the game and its driver. Rounds begin once Start is called.
func New(cfg config.Config, opts Options) (*Game, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	g := &Game{
		cfg:      cfg,
		log:      log,
		sched:    round.NewTickScheduler(),
		roundLog: NewRoundLog(),
		rng:      rand.New(rand.NewSource(seed + 1)), // #nosec G404 -- colours only
		width:    WindowWidth,
		height:   WindowHeight,
		camera:   DefaultCamera(),
		zoom:     1,
		rotate:   true,
		speed:    1,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		copyText: clipboard.WriteAll,
	}
	driver, err := round.NewDriver(cfg,
		round.WithScheduler(g.sched),
		round.WithLogger(log),
		round.WithEvents(opts.Events),
		round.WithMetrics(opts.Metrics),
		round.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- grid layout only
		round.OnRoundComplete(g.onRoundComplete),
	)
	if err != nil {
		return nil, err
	}
	g.driver = driver
	return g, nil
}

// Start begins the first round. Canceling ctx stops the chain of rounds.
func (g *Game) Start(ctx context.Context) error {
	if err := g.driver.Start(ctx); err != nil {
		return err
	}
	g.syncRound()
	return nil
}

// Driver exposes the round driver.
func (g *Game) Driver() *round.Driver { return g.driver }

func (g *Game) Update() error {
	g.handleInput()
	g.tick()
	return nil
}

// tick advances the virtual clock by one frame at the current speed.
func (g *Game) tick() {
	frame := time.Second / time.Duration(g.cfg.TPS)
	if g.rotate {
		g.camera.Yaw = math.Mod(g.camera.Yaw+autoYawRate*frame.Seconds(), 2*math.Pi)
	}
	if g.status != "" && g.sched.Now() >= g.statusUntil {
		g.status = ""
	}
	if g.speed > 0 {
		g.sched.Advance(time.Duration(float64(frame) * g.speed))
	}
	g.syncRound()
}

// syncRound picks a fresh palette whenever the driver moved to a new round.
func (g *Game) syncRound() {
	cur := g.driver.Current()
	if cur == nil || cur == g.shown {
		return
	}
	g.shown = cur
	g.palette = RandomPalette(g.rng)
}

func (g *Game) onRoundComplete(res round.Result) {
	g.roundLog.Add(res.Index, res.Status, fmt.Sprintf("%dx%dx%d path=%d cost=%d exp=%d",
		res.Dims.X, res.Dims.Y, res.Dims.Z, res.PathLen, res.PathCost, res.Expansions))
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = g.sched.Now() + 2*time.Second
}

// Report is the text copied to the clipboard: the live round followed by
// the finished rounds still in the log.
func (g *Game) Report() string {
	var sb strings.Builder
	sb.WriteString("sphere-search report\n")
	if r := g.driver.Current(); r != nil {
		e := r.Engine()
		d := r.Grid().Dims()
		fmt.Fprintf(&sb, "current: round %d %dx%dx%d walls=%d status=%s open=%d closed=%d path=%d cost=%d\n",
			r.Index(), d.X, d.Y, d.Z, r.Grid().WallCount(), e.Status(), len(e.Open()), len(e.Closed()), len(e.Path()), e.PathCost())
	}
	for _, e := range g.roundLog.Recent() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Game) copyReport() {
	if err := g.copyText(g.Report()); err != nil {
		g.log.Warn("clipboard copy failed", "err", err)
		g.flash("copy failed")
		return
	}
	g.flash("report copied")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)
	g.drawGrid(screen)
	g.roundLog.Draw(screen, hudFace, g.width-logPanelWidth, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

// buildSprites projects every non-wall node of the shown round, far nodes
// first.
func (g *Game) buildSprites() []sprite {
	g.sprites = g.sprites[:0]
	if g.shown == nil {
		return g.sprites
	}
	grid := g.shown.Grid()
	dims := grid.Dims()
	vpW := float64(g.width - logPanelWidth)
	vpH := float64(g.height)

	cam := g.camera
	cam.Zoom = FitZoom(dims, vpW, vpH) * g.zoom
	maxCost := grid.MaxCostSoFar()
	for _, n := range grid.AllNodes() {
		if n.State() == search.StateWall {
			continue
		}
		g.sprites = append(g.sprites, sprite{
			p:   cam.Project(n.Pos(), dims, vpW/2, vpH/2),
			col: g.palette.FillColor(n, maxCost),
		})
	}
	slices.SortStableFunc(g.sprites, func(a, b sprite) int {
		switch {
		case a.p.Depth > b.p.Depth:
			return -1
		case a.p.Depth < b.p.Depth:
			return 1
		}
		return 0
	})
	return g.sprites
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, s := range g.buildSprites() {
		r := float32(nodeDiameter / 2 * s.p.Scale)
		x, y := float32(s.p.X), float32(s.p.Y)
		vector.FillCircle(screen, x, y, r, s.col, true)
		// fake directional light
		vector.FillCircle(screen, x-r*0.3, y-r*0.3, r*0.4, lerpRGBA(s.col, white, 0.35), true)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
