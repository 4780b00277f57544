package instance

// Task is a single activity of an RCPSP instance. Demands holds the amount of
// each resource the task occupies for its whole duration. Successors holds the
// 1-based indices of the tasks that cannot start before this one ends; padding
// entries (values <= 0) are already filtered out by the loader.
type Task struct {
	Duration   int64
	Demands    []int64
	Successors []int
}

// Instance is an immutable RCPSP instance: tasks with durations and resource
// demands, precedence relations via successor lists, and renewable resource
// capacities.
type Instance struct {
	NumTasks     int
	NumResources int
	Capacities   []int64
	Tasks        []Task
}
