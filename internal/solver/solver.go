package solver

import (
	"context"
	"time"

	"github.com/limaJavier/rcpspcheck/internal/model"
)

type Status int

const (
	// Unknown means the run proved nothing: the time budget expired or the
	// backend gave up before reaching a conclusion.
	Unknown Status = iota
	// Feasible means a valid schedule was found without an optimality proof.
	Feasible
	// Optimal means a valid schedule was found and proven optimal.
	Optimal
	// Infeasible means the backend proved no schedule satisfies the model.
	Infeasible
)

var statusNames = map[Status]string{
	Unknown:    "unknown",
	Feasible:   "feasible",
	Optimal:    "optimal",
	Infeasible: "infeasible",
}

func (status Status) String() string {
	return statusNames[status]
}

// HasSolution reports whether the status carries a schedule.
func (status Status) HasSolution() bool {
	return status == Feasible || status == Optimal
}

// SolveResult is the outcome of a single solver run. Makespan and Schedule are
// only meaningful when Status.HasSolution().
type SolveResult struct {
	Status   Status
	Makespan int64
	Schedule model.Schedule
	WallTime time.Duration
}

// Solver runs a single scheduling model within the budget described by the
// options and reports a solution, a proof of infeasibility, or Unknown. A
// canceled context counts against the budget like an expired time limit.
type Solver interface {
	Solve(ctx context.Context, m *model.Model, opts Options) (SolveResult, error)
}
