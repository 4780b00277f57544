package solver

import (
	"math/rand/v2"

	"github.com/limaJavier/rcpspcheck/internal/instance"
)

// TwoTaskInstance builds the smallest interesting instance: two independent
// tasks of durations 3 and 2, each demanding one unit of the single resource.
// With capacity 1 they must run in sequence (optimum 5), with capacity 2 they
// can overlap (optimum 3).
func TwoTaskInstance(capacity int64) *instance.Instance {
	return &instance.Instance{
		NumTasks:     2,
		NumResources: 1,
		Capacities:   []int64{capacity},
		Tasks: []instance.Task{
			{Duration: 3, Demands: []int64{1}},
			{Duration: 2, Demands: []int64{1}},
		},
	}
}

// ChainInstance builds an instance whose tasks form a single precedence chain,
// so the optimum makespan is the sum of the durations regardless of capacity.
func ChainInstance(durations ...int64) *instance.Instance {
	tasks := make([]instance.Task, len(durations))
	for t, duration := range durations {
		tasks[t] = instance.Task{Duration: duration, Demands: []int64{1}}
		if t+1 < len(durations) {
			tasks[t].Successors = []int{t + 2}
		}
	}
	return &instance.Instance{
		NumTasks:     len(durations),
		NumResources: 1,
		Capacities:   []int64{1},
		Tasks:        tasks,
	}
}

// GenerateInstance builds a random feasible instance: durations in [1,5],
// demands never above the capacities, and precedence edges only from lower to
// higher indices so the relation is acyclic.
func GenerateInstance(tasks, resources int) *instance.Instance {
	capacities := make([]int64, resources)
	for r := range capacities {
		capacities[r] = rand.Int64N(3) + 2
	}

	inst := &instance.Instance{
		NumTasks:     tasks,
		NumResources: resources,
		Capacities:   capacities,
	}
	for t := range tasks {
		task := instance.Task{
			Duration: rand.Int64N(5) + 1,
			Demands:  make([]int64, resources),
		}
		for r := range task.Demands {
			task.Demands[r] = rand.Int64N(capacities[r] + 1)
		}
		for successor := t + 2; successor <= tasks; successor++ {
			if rand.Float32() < 0.25 {
				task.Successors = append(task.Successors, successor)
			}
		}
		inst.Tasks = append(inst.Tasks, task)
	}
	return inst
}
