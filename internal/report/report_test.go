package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/rcpspcheck/internal/instance"
	"github.com/limaJavier/rcpspcheck/internal/model"
	"github.com/limaJavier/rcpspcheck/internal/solver"
)

// scriptedSolver replays one queued result (or error) per Solve call.
type scriptedSolver struct {
	results []solver.SolveResult
	errs    []error
	calls   int
}

func (s *scriptedSolver) Solve(_ context.Context, _ *model.Model, _ solver.Options) (solver.SolveResult, error) {
	defer func() { s.calls++ }()
	if s.errs != nil && s.errs[s.calls] != nil {
		return solver.SolveResult{}, s.errs[s.calls]
	}
	return s.results[s.calls], nil
}

// One task of duration 1 demanding the whole single resource.
func trivialInstance() *instance.Instance {
	return &instance.Instance{
		NumTasks:     1,
		NumResources: 1,
		Capacities:   []int64{1},
		Tasks:        []instance.Task{{Duration: 1, Demands: []int64{1}}},
	}
}

func solved(status solver.Status, start int64) solver.SolveResult {
	return solver.SolveResult{
		Status:   status,
		Makespan: start + 1,
		Schedule: model.Schedule{{Start: start, End: start + 1}},
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		name       string
		bound      int64
		bounded    solver.SolveResult
		optimal    solver.SolveResult
		conclusion Conclusion
	}{
		{
			name:       "bound optimal",
			bound:      1,
			bounded:    solved(solver.Feasible, 0),
			optimal:    solved(solver.Optimal, 0),
			conclusion: BoundOptimal,
		},
		{
			name:       "bound not tight",
			bound:      5,
			bounded:    solved(solver.Feasible, 0),
			optimal:    solved(solver.Optimal, 0),
			conclusion: BoundNotTight,
		},
		{
			name:       "bound infeasible",
			bound:      0,
			bounded:    solver.SolveResult{Status: solver.Infeasible},
			optimal:    solved(solver.Optimal, 0),
			conclusion: BoundInfeasible,
		},
		{
			name:       "instance globally infeasible",
			bound:      3,
			bounded:    solver.SolveResult{Status: solver.Infeasible},
			optimal:    solver.SolveResult{Status: solver.Infeasible},
			conclusion: BoundInfeasible,
		},
		{
			name:       "anomaly when optimum exceeds a feasible bound",
			bound:      1,
			bounded:    solved(solver.Feasible, 0),
			optimal:    solved(solver.Optimal, 1), // claims optimum 2 despite a feasible bound of 1
			conclusion: Anomaly,
		},
		{
			name:       "anomaly when optimum fits an infeasible bound",
			bound:      1,
			bounded:    solver.SolveResult{Status: solver.Infeasible},
			optimal:    solved(solver.Optimal, 0),
			conclusion: Anomaly,
		},
		{
			name:       "inconclusive on unknown bounded run",
			bound:      1,
			bounded:    solver.SolveResult{Status: solver.Unknown},
			optimal:    solved(solver.Optimal, 0),
			conclusion: Inconclusive,
		},
		{
			name:       "inconclusive on unproven optimum",
			bound:      1,
			bounded:    solved(solver.Feasible, 0),
			optimal:    solved(solver.Feasible, 0),
			conclusion: Inconclusive,
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			backend := &scriptedSolver{results: []solver.SolveResult{testCase.bounded, testCase.optimal}}
			var out bytes.Buffer
			reporter := NewReporter(backend, solver.DefaultOptions(), &out)

			record := reporter.Run(context.Background(), trivialInstance(), testCase.bound)

			assert.Equal(t, testCase.conclusion, record.Conclusion)
			assert.Equal(t, 2, backend.calls, "both runs must happen")
		})
	}
}

func TestSolverErrorIsTreatedAsUnknown(t *testing.T) {
	backend := &scriptedSolver{
		results: []solver.SolveResult{{}, solved(solver.Optimal, 0)},
		errs:    []error{errors.New("backend crashed"), nil},
	}
	var out bytes.Buffer
	reporter := NewReporter(backend, solver.DefaultOptions(), &out)

	record := reporter.Run(context.Background(), trivialInstance(), 1)

	assert.Equal(t, Inconclusive, record.Conclusion)
	assert.Equal(t, 2, backend.calls, "a failed run must not abort the second run")
	assert.Contains(t, out.String(), "backend crashed")
}

func TestInvalidScheduleIsAnAnomaly(t *testing.T) {
	broken := solved(solver.Feasible, 0)
	broken.Schedule = model.Schedule{{Start: 0, End: 5}} // end != start + duration

	backend := &scriptedSolver{results: []solver.SolveResult{broken, solved(solver.Optimal, 0)}}
	var out bytes.Buffer
	reporter := NewReporter(backend, solver.DefaultOptions(), &out)

	record := reporter.Run(context.Background(), trivialInstance(), 1)

	assert.Equal(t, Anomaly, record.Conclusion)
	assert.Contains(t, out.String(), "invalid schedule")
}

func TestRecordFields(t *testing.T) {
	backend := &scriptedSolver{results: []solver.SolveResult{
		{Status: solver.Infeasible},
		solved(solver.Optimal, 0),
	}}
	var out bytes.Buffer
	reporter := NewReporter(backend, solver.DefaultOptions(), &out)

	record := reporter.Run(context.Background(), trivialInstance(), 0)

	assert.Equal(t, int64(0), record.Bound)
	assert.False(t, record.BoundedFeasible)
	assert.Nil(t, record.BoundedMakespan)
	require.NotNil(t, record.OptimalMakespan)
	assert.Equal(t, int64(1), *record.OptimalMakespan)
	assert.Contains(t, out.String(), "true optimum = 1")
}

func TestEndToEndWithBranchBound(t *testing.T) {
	backend := solver.NewBranchBoundSolver()

	t.Run("infeasible bound", func(t *testing.T) {
		var out bytes.Buffer
		reporter := NewReporter(backend, solver.DefaultOptions(), &out)

		record := reporter.Run(context.Background(), solver.TwoTaskInstance(1), 4)

		assert.Equal(t, BoundInfeasible, record.Conclusion)
		require.NotNil(t, record.OptimalMakespan)
		assert.Equal(t, int64(5), *record.OptimalMakespan)
	})

	t.Run("optimal bound", func(t *testing.T) {
		var out bytes.Buffer
		reporter := NewReporter(backend, solver.DefaultOptions(), &out)

		record := reporter.Run(context.Background(), solver.TwoTaskInstance(1), 5)

		assert.Equal(t, BoundOptimal, record.Conclusion)
		assert.True(t, record.BoundedFeasible)
		assert.Contains(t, out.String(), "task schedule:")
	})
}
