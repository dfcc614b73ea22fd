package round

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/Sphere-Search/internal/config"
	"github.com/Garsondee/Sphere-Search/internal/logging"
	"github.com/Garsondee/Sphere-Search/internal/search"
)

// Options configures a Round. Zero-valued fields fall back to a fresh
// TickScheduler, a no-op logger and no event log or metrics.
type Options struct {
	Index     int
	Delays    config.Delays
	Scheduler Scheduler
	Logger    *slog.Logger
	Events    *EventLog
	Metrics   *Metrics
}

// Result summarises a finished round.
type Result struct {
	ID          uuid.UUID
	Index       int
	Dims        search.Vec3
	Status      search.Status
	PathLen     int
	PathCost    int
	Expansions  int
	Relaxations int
	Walls       int
	Elapsed     time.Duration // scheduler time from Solve to completion
	Grid        *search.Grid
}

// String formats the result as a single report line.
func (r Result) String() string {
	return fmt.Sprintf("round %3d %2dx%2dx%2d walls=%4d %-9s path=%3d cost=%4d expansions=%4d relaxations=%5d elapsed=%s",
		r.Index, r.Dims.X, r.Dims.Y, r.Dims.Z, r.Walls, r.Status, r.PathLen, r.PathCost,
		r.Expansions, r.Relaxations, r.Elapsed.Round(time.Millisecond))
}

// Round paces one search over one grid through a Scheduler.
type Round struct {
	id      uuid.UUID
	index   int
	grid    *search.Grid
	engine  *search.Engine
	delays  config.Delays
	sched   Scheduler
	log     *slog.Logger
	events  *EventLog
	metrics *Metrics

	ctx        context.Context
	onComplete func(Result)
	started    time.Duration
	solving    bool
	reported   bool
	done       bool
	result     Result
}

// NewRound wraps grid in a Round. The search does not begin until Solve.
func NewRound(grid *search.Grid, opts Options) *Round {
	r := &Round{
		id:      uuid.New(),
		index:   opts.Index,
		grid:    grid,
		engine:  search.NewEngine(grid),
		delays:  opts.Delays,
		sched:   opts.Scheduler,
		log:     opts.Logger,
		events:  opts.Events,
		metrics: opts.Metrics,
	}
	if r.sched == nil {
		r.sched = NewTickScheduler()
	}
	if r.log == nil {
		r.log = logging.NewNop()
	}
	r.log = r.log.With("round_id", r.id.String(), "round", r.index)
	return r
}

func (r *Round) ID() uuid.UUID { return r.id }
func (r *Round) Index() int { return r.index }
func (r *Round) Grid() *search.Grid { return r.grid }
func (r *Round) Engine() *search.Engine { return r.engine }
func (r *Round) Status() search.Status { return r.engine.Status() }

// Done reports whether onComplete has been called.
func (r *Round) Done() bool { return r.done }

// Result returns the final summary; it is the zero Result until Done.
func (r *Round) Result() Result { return r.result }

// Solve starts the search. The grid is shown idle for the reset delay, then
// each Step is scheduled after the delay matching the pause it returned.
// onComplete runs exactly once: a reset delay after the last step, or at the
// next suspension point once ctx is canceled.
func (r *Round) Solve(ctx context.Context, onComplete func(Result)) error {
	if r.solving {
		return ErrAlreadySolving
	}
	if err := r.engine.Start(); err != nil {
		return fmt.Errorf("round %d: %w", r.index, err)
	}
	r.solving = true
	r.ctx = ctx
	r.onComplete = onComplete
	r.started = r.sched.Now()

	dims := r.grid.Dims()
	r.events.Add(r.index, r.started, CategoryGrid, "created",
		fmt.Sprintf("dims=%s walls=%d start=%s end=%s", dims, r.grid.WallCount(), r.grid.Start().Pos(), r.grid.End().Pos()),
		float64(r.grid.WallCount()))
	r.log.Info("round started",
		"dims", dims.String(),
		"walls", r.grid.WallCount(),
		"start", r.grid.Start().Pos().String(),
		"end", r.grid.End().Pos().String())

	r.sched.After(r.delays.Reset, r.step)
	return nil
}

// Abort cancels the search and completes the round immediately. It is a
// no-op once the round is done.
func (r *Round) Abort() {
	if r.done {
		return
	}
	r.engine.Cancel()
	r.finish()
}

func (r *Round) step() {
	if r.done {
		return
	}
	if r.ctx != nil && r.ctx.Err() != nil {
		r.log.Info("round canceled", "err", r.ctx.Err())
		r.Abort()
		return
	}

	pause, err := r.engine.Step()
	if err != nil {
		r.log.Error("search step failed", "err", err)
		r.Abort()
		return
	}
	if r.engine.Status().Terminal() && !r.reported {
		r.report()
	}

	now := r.sched.Now()
	switch pause {
	case search.PauseSolve:
		r.metrics.observeRelaxation()
		if cur := r.engine.Current(); cur != nil {
			r.events.AddVerbose(r.index, now, CategorySearch, "relax",
				fmt.Sprintf("from=%s open=%d closed=%d", cur.Pos(), len(r.engine.Open()), len(r.engine.Closed())),
				float64(r.engine.Relaxations()))
		}
		r.sched.After(r.delays.Solve, r.step)
	case search.PauseRetrace:
		r.events.AddVerbose(r.index, now, CategoryRetrace, "mark",
			fmt.Sprintf("marked=%d/%d", r.engine.Marked(), len(r.engine.Path())),
			float64(r.engine.Marked()))
		r.sched.After(r.delays.Retrace, r.step)
	case search.PauseDone:
		r.sched.After(r.delays.Reset, r.complete)
	}
}

// report records the search outcome the first time the engine is terminal.
func (r *Round) report() {
	r.reported = true
	now := r.sched.Now()
	switch r.engine.Status() {
	case search.StatusSucceeded:
		r.events.Add(r.index, now, CategorySearch, "succeeded",
			fmt.Sprintf("path=%d cost=%d", len(r.engine.Path()), r.engine.PathCost()),
			float64(r.engine.PathCost()))
		r.log.Info("path found",
			"path_len", len(r.engine.Path()),
			"cost", r.engine.PathCost(),
			"expansions", r.engine.Expansions())
	case search.StatusExhausted:
		r.events.Add(r.index, now, CategorySearch, "exhausted",
			fmt.Sprintf("closed=%d", len(r.engine.Closed())),
			float64(r.engine.Expansions()))
		r.log.Info("no path", "expansions", r.engine.Expansions())
	}
}

func (r *Round) complete() {
	if r.done {
		return
	}
	if len(r.engine.Path()) > 0 {
		r.events.Add(r.index, r.sched.Now(), CategoryRetrace, "complete",
			fmt.Sprintf("marked=%d", r.engine.Marked()), float64(r.engine.Marked()))
	}
	r.finish()
}

func (r *Round) finish() {
	r.done = true
	r.result = Result{
		ID:          r.id,
		Index:       r.index,
		Dims:        r.grid.Dims(),
		Status:      r.engine.Status(),
		PathLen:     len(r.engine.Path()),
		PathCost:    r.engine.PathCost(),
		Expansions:  r.engine.Expansions(),
		Relaxations: r.engine.Relaxations(),
		Walls:       r.grid.WallCount(),
		Elapsed:     r.sched.Now() - r.started,
		Grid:        r.grid,
	}
	r.metrics.observeRound(r.result)
	r.events.Add(r.index, r.sched.Now(), CategoryRound, "complete",
		r.result.Status.String(), float64(r.result.Elapsed.Milliseconds()))
	r.log.Debug("round complete", "status", r.result.Status.String(), "elapsed", r.result.Elapsed)
	if r.onComplete != nil {
		r.onComplete(r.result)
	}
}
