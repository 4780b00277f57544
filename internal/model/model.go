package model

import (
	"github.com/samber/lo"

	"github.com/limaJavier/rcpspcheck/internal/instance"
)

type Mode int

const (
	// BoundedFeasibility constrains the makespan to be at most Bound and asks
	// only whether any schedule exists.
	BoundedFeasibility Mode = iota
	// MinimizeMakespan leaves the makespan free and minimizes it.
	MinimizeMakespan
)

// Resource is one renewable resource of the model together with the demand
// each task puts on it. Resources no task demands are not modeled at all.
type Resource struct {
	Index    int // position in the instance capacity vector
	Capacity int64
	Demands  []int64 // per task, aligned with Model.Durations
}

// Model is the backend-neutral scheduling model every solver consumes: one
// fixed-length interval per task, precedence pairs, cumulative resource
// profiles and a makespan objective or bound. Task indices are 0-based here;
// the 1-based successor lists of the instance are resolved during build.
type Model struct {
	Durations   []int64
	Precedences [][2]int // (predecessor, successor) pairs
	Resources   []Resource
	Horizon     int64 // sum of durations, a trivial upper bound on any active schedule
	Mode        Mode
	Bound       int64 // only meaningful in BoundedFeasibility mode
}

// BuildBounded builds a model that tests whether a schedule with
// makespan <= bound exists.
func BuildBounded(inst *instance.Instance, bound int64) *Model {
	m := build(inst)
	m.Mode = BoundedFeasibility
	m.Bound = bound
	return m
}

// BuildMinimize builds a model that minimizes the makespan.
func BuildMinimize(inst *instance.Instance) *Model {
	m := build(inst)
	m.Mode = MinimizeMakespan
	return m
}

func build(inst *instance.Instance) *Model {
	durations := lo.Map(inst.Tasks, func(task instance.Task, _ int) int64 { return task.Duration })

	var precedences [][2]int
	for t, task := range inst.Tasks {
		for _, successor := range task.Successors {
			precedences = append(precedences, [2]int{t, successor - 1})
		}
	}

	var resources []Resource
	for r := range inst.NumResources {
		demands := lo.Map(inst.Tasks, func(task instance.Task, _ int) int64 { return task.Demands[r] })
		if lo.SomeBy(demands, func(demand int64) bool { return demand > 0 }) {
			resources = append(resources, Resource{
				Index:    r,
				Capacity: inst.Capacities[r],
				Demands:  demands,
			})
		}
	}

	return &Model{
		Durations:   durations,
		Precedences: precedences,
		Resources:   resources,
		Horizon:     lo.Sum(durations),
	}
}
