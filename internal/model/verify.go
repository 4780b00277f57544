package model

import "fmt"

// TaskTiming is the start and end assigned to one task by a solver.
type TaskTiming struct {
	Start int64
	End   int64
}

// Schedule assigns a timing to every task of a model, aligned by index.
type Schedule []TaskTiming

// Makespan returns the latest end time of the schedule.
func (schedule Schedule) Makespan() int64 {
	var makespan int64
	for _, timing := range schedule {
		if timing.End > makespan {
			makespan = timing.End
		}
	}
	return makespan
}

// Verify checks a schedule returned by a solver against the model: interval
// consistency, every precedence pair, the capacity of every resource at every
// integer time point and, in bounded mode, the makespan bound. It returns the
// first violation found, nil if the schedule is valid.
func Verify(m *Model, schedule Schedule) error {
	if len(schedule) != len(m.Durations) {
		return fmt.Errorf("schedule covers %d tasks, model has %d", len(schedule), len(m.Durations))
	}

	for t, timing := range schedule {
		if timing.Start < 0 {
			return fmt.Errorf("task %d starts at %d", t+1, timing.Start)
		}
		if timing.End != timing.Start+m.Durations[t] {
			return fmt.Errorf("task %d: end %d != start %d + duration %d", t+1, timing.End, timing.Start, m.Durations[t])
		}
	}

	for _, pair := range m.Precedences {
		pred, succ := pair[0], pair[1]
		if schedule[succ].Start < schedule[pred].End {
			return fmt.Errorf("task %d starts at %d before its predecessor %d ends at %d",
				succ+1, schedule[succ].Start, pred+1, schedule[pred].End)
		}
	}

	makespan := schedule.Makespan()
	for _, resource := range m.Resources {
		for instant := int64(0); instant < makespan; instant++ {
			var usage int64
			for t, timing := range schedule {
				if timing.Start <= instant && instant < timing.End {
					usage += resource.Demands[t]
				}
			}
			if usage > resource.Capacity {
				return fmt.Errorf("resource %d over capacity at time %d: %d > %d",
					resource.Index+1, instant, usage, resource.Capacity)
			}
		}
	}

	if m.Mode == BoundedFeasibility && makespan > m.Bound {
		return fmt.Errorf("makespan %d exceeds bound %d", makespan, m.Bound)
	}

	return nil
}
