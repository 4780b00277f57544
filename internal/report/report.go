package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/limaJavier/rcpspcheck/internal/instance"
	"github.com/limaJavier/rcpspcheck/internal/model"
	"github.com/limaJavier/rcpspcheck/internal/solver"
)

type Conclusion int

const (
	// Inconclusive means at least one run ended Unknown (timeout or solver
	// failure); no feasibility or optimality claim is made.
	Inconclusive Conclusion = iota
	// BoundOptimal means the bound is feasible and equals the proven optimum.
	BoundOptimal
	// BoundNotTight means the bound is feasible but the proven optimum is
	// strictly smaller.
	BoundNotTight
	// BoundInfeasible means the bound was proven infeasible; the true optimum
	// is reported alongside.
	BoundInfeasible
	// Anomaly means the two runs contradict each other or a returned schedule
	// fails verification. It signals a solver or modeling bug and is never
	// reconciled into one of the ordinary conclusions.
	Anomaly
)

var conclusionNames = map[Conclusion]string{
	Inconclusive:    "inconclusive",
	BoundOptimal:    "bound is optimal",
	BoundNotTight:   "bound is feasible but not tight",
	BoundInfeasible: "bound is infeasible",
	Anomaly:         "anomaly",
}

func (conclusion Conclusion) String() string {
	return conclusionNames[conclusion]
}

// Record is the machine-readable summary of one diagnostic: the bounded
// feasibility run at Bound compared against the unconstrained minimization
// run. Makespan pointers are nil when the corresponding run found no schedule.
type Record struct {
	Bound           int64
	BoundedFeasible bool
	BoundedMakespan *int64
	OptimalMakespan *int64
	Conclusion      Conclusion
	BoundedWallTime time.Duration
	OptimalWallTime time.Duration
}

// Reporter runs the two solver passes sequentially and classifies the outcome.
type Reporter struct {
	solver solver.Solver
	opts   solver.Options
	out    io.Writer
}

func NewReporter(backend solver.Solver, opts solver.Options, out io.Writer) *Reporter {
	return &Reporter{solver: backend, opts: opts, out: out}
}

// Run tests whether a makespan of bound is feasible for the instance, then
// minimizes the makespan without the bound, and compares the two results.
// Each run gets its own time budget; a failed run is reported as unknown and
// never aborts the other one.
func (reporter *Reporter) Run(ctx context.Context, inst *instance.Instance, bound int64) Record {
	fmt.Fprintf(reporter.out, "== testing makespan <= %d ==\n", bound)
	boundedModel := model.BuildBounded(inst, bound)
	bounded, boundedValid := reporter.solve(ctx, boundedModel)

	fmt.Fprintf(reporter.out, "== minimizing makespan ==\n")
	minimizeModel := model.BuildMinimize(inst)
	optimal, optimalValid := reporter.solve(ctx, minimizeModel)

	record := classify(bound, bounded, optimal, boundedValid && optimalValid)
	record.BoundedWallTime = bounded.WallTime
	record.OptimalWallTime = optimal.WallTime

	reporter.printConclusion(record, optimal)
	return record
}

// solve runs one pass and prints its outcome. The second return value is false
// when the backend returned a schedule that fails verification.
func (reporter *Reporter) solve(ctx context.Context, m *model.Model) (solver.SolveResult, bool) {
	result, err := reporter.solver.Solve(ctx, m, reporter.opts)
	if err != nil {
		// A backend failure proves nothing about the model.
		fmt.Fprintf(reporter.out, "solver error: %v\n", err)
		return solver.SolveResult{Status: solver.Unknown}, true
	}

	fmt.Fprintf(reporter.out, "status: %v", result.Status)
	if result.Status.HasSolution() {
		fmt.Fprintf(reporter.out, ", makespan: %d", result.Makespan)
	}
	fmt.Fprintf(reporter.out, ", wall time: %.2fs\n", result.WallTime.Seconds())

	if result.Status.HasSolution() {
		if err := model.Verify(m, result.Schedule); err != nil {
			fmt.Fprintf(reporter.out, "invalid schedule returned: %v\n", err)
			return result, false
		}
		reporter.printSchedule(m, result.Schedule)
	}
	return result, true
}

func classify(bound int64, bounded, optimal solver.SolveResult, valid bool) Record {
	record := Record{Bound: bound}

	if bounded.Status.HasSolution() {
		record.BoundedFeasible = true
		record.BoundedMakespan = &bounded.Makespan
	}
	if optimal.Status.HasSolution() {
		record.OptimalMakespan = &optimal.Makespan
	}

	switch {
	case !valid:
		record.Conclusion = Anomaly
	case record.BoundedFeasible && bounded.Makespan > bound:
		record.Conclusion = Anomaly
	case record.BoundedFeasible && optimal.Status == solver.Optimal && optimal.Makespan > bound:
		// A feasible schedule within the bound exists, yet the "optimum" is
		// larger. One of the two runs is lying.
		record.Conclusion = Anomaly
	case bounded.Status == solver.Infeasible && optimal.Status == solver.Optimal && optimal.Makespan <= bound:
		record.Conclusion = Anomaly
	case record.BoundedFeasible && optimal.Status == solver.Infeasible:
		record.Conclusion = Anomaly
	case record.BoundedFeasible && optimal.Status == solver.Optimal && optimal.Makespan == bound:
		record.Conclusion = BoundOptimal
	case record.BoundedFeasible && optimal.Status == solver.Optimal:
		record.Conclusion = BoundNotTight
	case bounded.Status == solver.Infeasible && optimal.Status == solver.Optimal:
		record.Conclusion = BoundInfeasible
	case bounded.Status == solver.Infeasible && optimal.Status == solver.Infeasible:
		record.Conclusion = BoundInfeasible
	default:
		record.Conclusion = Inconclusive
	}
	return record
}

func (reporter *Reporter) printSchedule(m *model.Model, schedule model.Schedule) {
	fmt.Fprintln(reporter.out, "task schedule:")
	for t, timing := range schedule {
		fmt.Fprintf(reporter.out, "  task %d: start=%d end=%d duration=%d\n",
			t+1, timing.Start, timing.End, m.Durations[t])
	}
}

func (reporter *Reporter) printConclusion(record Record, optimal solver.SolveResult) {
	fmt.Fprintf(reporter.out, "== conclusion ==\n")
	switch record.Conclusion {
	case BoundOptimal:
		fmt.Fprintf(reporter.out, "makespan %d is feasible and optimal\n", record.Bound)
	case BoundNotTight:
		fmt.Fprintf(reporter.out, "makespan %d is feasible but not optimal; true optimum = %d\n",
			record.Bound, *record.OptimalMakespan)
	case BoundInfeasible:
		if record.OptimalMakespan != nil {
			fmt.Fprintf(reporter.out, "makespan %d is infeasible; true optimum = %d\n",
				record.Bound, *record.OptimalMakespan)
		} else {
			fmt.Fprintf(reporter.out, "makespan %d is infeasible; the instance has no schedule at all\n", record.Bound)
		}
	case Anomaly:
		fmt.Fprintf(reporter.out, "anomaly: the two runs contradict each other (bounded feasible=%v", record.BoundedFeasible)
		if optimal.Status == solver.Optimal {
			fmt.Fprintf(reporter.out, ", reported optimum=%d", optimal.Makespan)
		}
		fmt.Fprintf(reporter.out, "); suspect a solver or modeling bug\n")
	default:
		fmt.Fprintf(reporter.out, "inconclusive: at least one run hit its budget without a proof\n")
	}
}
