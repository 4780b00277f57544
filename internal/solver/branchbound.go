package solver

import (
	"context"
	"time"

	"github.com/limaJavier/rcpspcheck/internal/model"
)

type branchBoundSolver struct{}

// NewBranchBoundSolver returns a pure-Go Solver that runs a depth-first branch
// and bound over the serial schedule-generation scheme: it branches on the set
// of tasks whose predecessors are all scheduled, places each candidate at its
// earliest precedence- and resource-feasible start, and prunes with a
// critical-path tail bound. Exploring every eligible-task ordering visits at
// least one optimal active schedule, so a completed search is a proof.
func NewBranchBoundSolver() Solver {
	return &branchBoundSolver{}
}

func (solver *branchBoundSolver) Solve(ctx context.Context, m *model.Model, opts Options) (SolveResult, error) {
	started := time.Now()

	deadline := started.Add(opts.TimeLimit)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	s := newSearch(m, deadline, ctx.Done())
	s.branch(0, 0)

	result := SolveResult{WallTime: time.Since(started)}
	switch {
	case s.best != nil && m.Mode == model.BoundedFeasibility:
		result.Status = Feasible
	case s.best != nil && s.expired:
		// The incumbent is valid but the search did not finish, so there is
		// no optimality proof.
		result.Status = Feasible
	case s.best != nil:
		result.Status = Optimal
	case s.expired:
		result.Status = Unknown
	default:
		// Exhausted without a schedule: either the makespan bound cut every
		// branch, a demand exceeds a capacity outright, or the precedence
		// relation is cyclic and no ordering ever becomes eligible.
		result.Status = Infeasible
	}
	if s.best != nil {
		result.Schedule = s.best
		result.Makespan = s.bestMakespan
	}
	return result, nil
}

type search struct {
	m        *model.Model
	deadline time.Time
	cancel   <-chan struct{}

	succs        [][]int // successor indices per task
	pendingPreds []int   // unscheduled predecessor count per task
	earliest     []int64 // precedence-derived earliest start per task
	tails        []int64 // critical-path duration from each task to the end

	usage  [][]int64 // per modeled resource, capacity in use per time point
	placed []bool
	times  model.Schedule
	cutoff int64 // prune any branch whose lower bound exceeds this

	best         model.Schedule
	bestMakespan int64
	expired      bool
	nodes        uint64
}

func newSearch(m *model.Model, deadline time.Time, cancel <-chan struct{}) *search {
	n := len(m.Durations)
	s := &search{
		m:            m,
		deadline:     deadline,
		cancel:       cancel,
		succs:        make([][]int, n),
		pendingPreds: make([]int, n),
		earliest:     make([]int64, n),
		usage:        make([][]int64, len(m.Resources)),
		placed:       make([]bool, n),
		times:        make(model.Schedule, n),
		cutoff:       m.Horizon,
	}
	for _, pair := range m.Precedences {
		s.succs[pair[0]] = append(s.succs[pair[0]], pair[1])
		s.pendingPreds[pair[1]]++
	}
	for r := range m.Resources {
		s.usage[r] = make([]int64, m.Horizon)
	}
	if m.Mode == model.BoundedFeasibility {
		s.cutoff = m.Bound
	}
	s.tails = criticalTails(m.Durations, s.succs, s.pendingPreds)
	return s
}

// criticalTails computes, per task, the longest duration chain from the task
// through its successors. Tasks on a precedence cycle never enter the
// topological order; their own duration is still a valid tail.
func criticalTails(durations []int64, succs [][]int, pendingPreds []int) []int64 {
	n := len(durations)

	indegree := make([]int, n)
	copy(indegree, pendingPreds)
	topological := make([]int, 0, n)
	for t := range n {
		if indegree[t] == 0 {
			topological = append(topological, t)
		}
	}
	for i := 0; i < len(topological); i++ {
		for _, successor := range succs[topological[i]] {
			indegree[successor]--
			if indegree[successor] == 0 {
				topological = append(topological, successor)
			}
		}
	}

	tails := make([]int64, n)
	for t := range n {
		tails[t] = durations[t]
	}
	for i := len(topological) - 1; i >= 0; i-- {
		t := topological[i]
		for _, successor := range succs[t] {
			if tails[successor]+durations[t] > tails[t] {
				tails[t] = tails[successor] + durations[t]
			}
		}
	}
	return tails
}

// branch extends the partial schedule by one task per recursion level. It
// returns true when the whole search can stop: the budget expired or, in
// bounded mode, a schedule within the bound was found.
func (s *search) branch(scheduled int, partialMakespan int64) bool {
	s.nodes++
	if s.nodes%256 == 1 && s.interrupted() {
		s.expired = true
		return true
	}

	n := len(s.m.Durations)
	if scheduled == n {
		return s.record(partialMakespan)
	}

	for t := range n {
		if s.placed[t] || s.pendingPreds[t] != 0 {
			continue
		}

		start, ok := s.earliestFeasibleStart(t)
		if !ok {
			continue
		}
		end := start + s.m.Durations[t]

		lowerBound := max(partialMakespan, start+s.tails[t])
		if lowerBound > s.cutoff {
			continue
		}

		saved := s.place(t, start, end)
		stop := s.branch(scheduled+1, max(partialMakespan, end))
		s.unplace(t, start, end, saved)
		if stop {
			return true
		}
	}
	return false
}

func (s *search) record(makespan int64) bool {
	if s.best == nil || makespan < s.bestMakespan {
		s.best = make(model.Schedule, len(s.times))
		copy(s.best, s.times)
		s.bestMakespan = makespan
		if s.m.Mode == model.MinimizeMakespan {
			s.cutoff = makespan - 1
		}
	}
	// One schedule within the bound settles a feasibility question.
	return s.m.Mode == model.BoundedFeasibility
}

// earliestFeasibleStart scans forward from the precedence-derived earliest
// start until every modeled resource can host the task for its whole duration.
func (s *search) earliestFeasibleStart(t int) (int64, bool) {
	start := s.earliest[t]
	duration := s.m.Durations[t]
	if duration == 0 {
		return start, true
	}

	for start+duration <= s.m.Horizon {
		conflict := int64(-1)
		for r, resource := range s.m.Resources {
			demand := resource.Demands[t]
			if demand == 0 {
				continue
			}
			for instant := start; instant < start+duration; instant++ {
				if s.usage[r][instant]+demand > resource.Capacity {
					conflict = instant
					break
				}
			}
			if conflict >= 0 {
				break
			}
		}
		if conflict < 0 {
			return start, true
		}
		// No point retrying before the conflicting instant has passed.
		start = conflict + 1
	}
	return 0, false
}

// place schedules t over [start, end) and returns the successors' previous
// earliest starts so unplace can restore them.
func (s *search) place(t int, start, end int64) []int64 {
	s.placed[t] = true
	s.times[t] = model.TaskTiming{Start: start, End: end}
	for r, resource := range s.m.Resources {
		if demand := resource.Demands[t]; demand > 0 {
			for instant := start; instant < end; instant++ {
				s.usage[r][instant] += demand
			}
		}
	}

	saved := make([]int64, len(s.succs[t]))
	for i, successor := range s.succs[t] {
		saved[i] = s.earliest[successor]
		s.pendingPreds[successor]--
		if end > s.earliest[successor] {
			s.earliest[successor] = end
		}
	}
	return saved
}

func (s *search) unplace(t int, start, end int64, saved []int64) {
	s.placed[t] = false
	for r, resource := range s.m.Resources {
		if demand := resource.Demands[t]; demand > 0 {
			for instant := start; instant < end; instant++ {
				s.usage[r][instant] -= demand
			}
		}
	}
	for i, successor := range s.succs[t] {
		s.pendingPreds[successor]++
		s.earliest[successor] = saved[i]
	}
}

func (s *search) interrupted() bool {
	select {
	case <-s.cancel:
		return true
	default:
	}
	return time.Now().After(s.deadline)
}
