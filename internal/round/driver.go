package round

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Garsondee/Sphere-Search/internal/config"
	"github.com/Garsondee/Sphere-Search/internal/logging"
	"github.com/Garsondee/Sphere-Search/internal/search"
)

// GridFactory builds the grid for a round. The default factory carves a
// random grid using the configured density and radius divisor.
type GridFactory func(index int, dims search.Vec3, rng *rand.Rand) (*search.Grid, error)

// DriverOption configures a Driver.
type DriverOption func(*Driver)

func WithScheduler(s Scheduler) DriverOption { return func(d *Driver) { d.sched = s } }
func WithLogger(l *slog.Logger) DriverOption { return func(d *Driver) { d.log = l } }
func WithEvents(el *EventLog) DriverOption { return func(d *Driver) { d.events = el } }
func WithMetrics(m *Metrics) DriverOption { return func(d *Driver) { d.metrics = m } }
func WithRand(rng *rand.Rand) DriverOption { return func(d *Driver) { d.rng = rng } }

// WithGridFactory replaces random grid generation.
func WithGridFactory(f GridFactory) DriverOption { return func(d *Driver) { d.factory = f } }

// OnRoundComplete registers a hook called with each finished round, before
// the next one is built.
func OnRoundComplete(fn func(Result)) DriverOption {
	return func(d *Driver) { d.hooks = append(d.hooks, fn) }
}

// Driver runs rounds back to back: when one completes the next grid is
// built with fresh random dimensions and solved.
type Driver struct {
	cfg     config.Config
	sched   Scheduler
	log     *slog.Logger
	events  *EventLog
	metrics *Metrics
	rng     *rand.Rand
	factory GridFactory
	hooks   []func(Result)

	ctx       context.Context
	current   *Round
	cancel    context.CancelFunc
	nextIndex int
	completed int
	lastErr   error
}

// NewDriver validates cfg and creates a Driver. No round exists until Start.
func NewDriver(cfg config.Config, opts ...DriverOption) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}
	if d.sched == nil {
		d.sched = NewTickScheduler()
	}
	if d.log == nil {
		d.log = logging.NewNop()
	}
	if d.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		d.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- animation, not security
	}
	if d.factory == nil {
		d.factory = d.randomGrid
	}
	return d, nil
}

// Start builds and solves the first round with the initial dimensions.
// Rounds keep following each other until ctx is canceled.
func (d *Driver) Start(ctx context.Context) error {
	if d.ctx != nil {
		return ErrDriverStarted
	}
	d.ctx = ctx
	_, err := d.launch(d.cfg.Grid.Initial.Vec3())
	return err
}

// Current returns the round being animated, or nil before Start.
func (d *Driver) Current() *Round { return d.current }

// Completed returns how many rounds have finished.
func (d *Driver) Completed() int { return d.completed }

// Scheduler returns the scheduler the rounds are paced by.
func (d *Driver) Scheduler() Scheduler { return d.sched }

// Err returns the last error hit while building a round automatically.
func (d *Driver) Err() error { return d.lastErr }

// Advance replaces the finished round with a new one whose dimensions are
// drawn from the configured bounds, and starts solving it.
func (d *Driver) Advance(ctx context.Context, finished Result) (*Round, error) {
	if d.current == nil {
		return nil, ErrNoRound
	}
	if !d.current.Done() {
		return nil, fmt.Errorf("round %d still running: %w", d.current.Index(), ErrAlreadySolving)
	}
	d.log.Debug("advancing", "finished", finished.Index, "status", finished.Status.String())
	if ctx != nil {
		d.ctx = ctx
	}
	return d.launch(d.nextDims())
}

// Preempt cancels the current round. Its completion is delivered
// synchronously, so the next round starts before Preempt returns.
func (d *Driver) Preempt() {
	if d.current == nil || d.current.Done() {
		return
	}
	d.log.Info("preempting round", "round", d.current.Index())
	d.cancel()
	d.current.Abort()
}

func (d *Driver) launch(dims search.Vec3) (*Round, error) {
	index := d.nextIndex
	grid, err := d.factory(index, dims, d.rng)
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", index, err)
	}
	d.nextIndex++

	r := NewRound(grid, Options{
		Index:     index,
		Delays:    d.cfg.Delays,
		Scheduler: d.sched,
		Logger:    d.log,
		Events:    d.events,
		Metrics:   d.metrics,
	})
	ctx, cancel := context.WithCancel(d.ctx)
	if d.cancel != nil {
		d.cancel()
	}
	d.current, d.cancel = r, cancel
	if err := r.Solve(ctx, d.roundComplete); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Driver) roundComplete(res Result) {
	d.completed++
	for _, fn := range d.hooks {
		fn(res)
	}
	if d.ctx.Err() != nil {
		d.log.Info("driver stopped", "rounds", d.completed)
		return
	}
	if _, err := d.Advance(d.ctx, res); err != nil {
		d.lastErr = err
		d.log.Error("next round failed", "err", err)
	}
}

func (d *Driver) nextDims() search.Vec3 {
	lo, hi := d.cfg.Grid.Min, d.cfg.Grid.Max
	return search.Vec3{
		X: lo.X + d.rng.Intn(hi.X-lo.X),
		Y: lo.Y + d.rng.Intn(hi.Y-lo.Y),
		Z: lo.Z + d.rng.Intn(hi.Z-lo.Z),
	}
}

func (d *Driver) randomGrid(_ int, dims search.Vec3, rng *rand.Rand) (*search.Grid, error) {
	return search.NewGrid(dims,
		search.WithRand(rng),
		search.WithDensity(d.cfg.Grid.Density),
		search.WithRadiusDivisor(d.cfg.Grid.RadiusDivisor))
}
