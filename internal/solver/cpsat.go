package solver

import (
	"context"
	"fmt"
	"time"

	log "github.com/golang/glog"
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"

	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"

	"github.com/limaJavier/rcpspcheck/internal/model"
)

type cpSatSolver struct{}

// NewCpSatSolver returns a Solver backed by the OR-Tools CP-SAT engine.
func NewCpSatSolver() Solver {
	return &cpSatSolver{}
}

// cpVars keeps references into the CP model proto for solution extraction.
type cpVars struct {
	starts   []cpmodel.IntVar
	ends     []cpmodel.IntVar
	makespan cpmodel.IntVar
}

func (solver *cpSatSolver) Solve(ctx context.Context, m *model.Model, opts Options) (SolveResult, error) {
	started := time.Now()

	builder, vars := buildCpModel(m)
	modelProto, err := builder.Model()
	if err != nil {
		return SolveResult{}, fmt.Errorf("cannot instantiate the CP model: %w", err)
	}

	response, err := cpmodel.SolveCpModelInterruptibleWithParameters(modelProto, cpParameters(opts), ctx.Done())
	if err != nil {
		return SolveResult{}, fmt.Errorf("cp-sat solve failed: %w", err)
	}
	log.V(1).Infof("cp-sat finished: status=%v wall=%.2fs", response.GetStatus(), response.GetWallTime())

	result := SolveResult{WallTime: time.Since(started)}
	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
		result.Status = Optimal
		// A bounded run only proves feasibility; it makes no optimality claim.
		if m.Mode == model.BoundedFeasibility || response.GetStatus() == cmpb.CpSolverStatus_FEASIBLE {
			result.Status = Feasible
		}
		result.Makespan = cpmodel.SolutionIntegerValue(response, vars.makespan)
		result.Schedule = make(model.Schedule, len(m.Durations))
		for t := range m.Durations {
			result.Schedule[t] = model.TaskTiming{
				Start: cpmodel.SolutionIntegerValue(response, vars.starts[t]),
				End:   cpmodel.SolutionIntegerValue(response, vars.ends[t]),
			}
		}
	case cmpb.CpSolverStatus_INFEASIBLE:
		result.Status = Infeasible
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return SolveResult{}, fmt.Errorf("cp-sat rejected the model as invalid")
	default:
		result.Status = Unknown
	}
	return result, nil
}

// buildCpModel translates the backend-neutral model into a CP-SAT model: one
// fixed-size interval per task, a precedence inequality per edge, a cumulative
// constraint per modeled resource and a max-equality makespan.
func buildCpModel(m *model.Model) (*cpmodel.Builder, cpVars) {
	builder := cpmodel.NewCpModelBuilder()

	vars := cpVars{
		starts: make([]cpmodel.IntVar, len(m.Durations)),
		ends:   make([]cpmodel.IntVar, len(m.Durations)),
	}
	intervals := make([]cpmodel.IntervalVar, len(m.Durations))
	for t, duration := range m.Durations {
		vars.starts[t] = builder.NewIntVar(0, m.Horizon).WithName(fmt.Sprintf("S%d", t+1))
		vars.ends[t] = builder.NewIntVar(0, m.Horizon).WithName(fmt.Sprintf("E%d", t+1))
		intervals[t] = builder.NewIntervalVar(vars.starts[t], cpmodel.NewConstant(duration), vars.ends[t]).
			WithName(fmt.Sprintf("T%d", t+1))
	}

	for _, pair := range m.Precedences {
		builder.AddGreaterOrEqual(vars.starts[pair[1]], vars.ends[pair[0]])
	}

	for _, resource := range m.Resources {
		cumulative := builder.AddCumulative(cpmodel.NewConstant(resource.Capacity))
		for t, demand := range resource.Demands {
			if demand > 0 {
				cumulative.AddDemand(intervals[t], cpmodel.NewConstant(demand))
			}
		}
	}

	vars.makespan = builder.NewIntVar(0, m.Horizon).WithName("makespan")
	builder.AddMaxEquality(vars.makespan, lo.Map(vars.ends, func(end cpmodel.IntVar, _ int) cpmodel.LinearArgument {
		return end
	})...)

	switch m.Mode {
	case model.BoundedFeasibility:
		builder.AddLessOrEqual(vars.makespan, cpmodel.NewConstant(m.Bound))
	case model.MinimizeMakespan:
		builder.Minimize(vars.makespan)
	}

	return builder, vars
}

func cpParameters(opts Options) *sppb.SatParameters {
	params := &sppb.SatParameters{
		MaxTimeInSeconds:  proto.Float64(opts.TimeLimit.Seconds()),
		NumWorkers:        proto.Int32(int32(opts.Workers)),
		LogSearchProgress: proto.Bool(opts.LogProgress),
	}
	if opts.Strategy == FixedSearch {
		params.SearchBranching = sppb.SatParameters_FIXED_SEARCH.Enum()
	}
	return params
}
