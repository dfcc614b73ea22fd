package round

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

func TestMetrics_RecordsRound(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	sched := NewTickScheduler()
	g := openGrid(t, search.Vec3{X: 1, Y: 1, Z: 2}, search.Vec3{}, search.Vec3{Z: 1})
	r := NewRound(g, Options{Delays: testDelays, Scheduler: sched, Metrics: m})
	require.NoError(t, r.Solve(context.Background(), nil))
	sched.RunUntilIdle(0)
	require.True(t, r.Done())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rounds.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relaxations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.expansions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pathLength))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.observeRelaxation()
	m.observeRound(Result{Status: search.StatusSucceeded})
}
