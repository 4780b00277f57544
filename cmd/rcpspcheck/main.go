// The rcpspcheck command tests whether a given makespan bound is feasible for
// an RCPSP instance and compares it against the proven optimum.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/golang/glog"

	"github.com/limaJavier/rcpspcheck/internal/instance"
	"github.com/limaJavier/rcpspcheck/internal/report"
	"github.com/limaJavier/rcpspcheck/internal/solver"
)

var (
	dataFile    = flag.String("data", "data/Pack045.data", "path to the RCPSP instance file")
	bound       = flag.Int64("bound", 58, "makespan upper bound to test")
	timeLimit   = flag.Duration("time_limit", 30*time.Minute, "time budget per solver run")
	backendName = flag.String("backend", "cpsat", "solver backend: cpsat or branchbound")
	workers     = flag.Int("workers", 1, "solver worker count")
	optionsFile = flag.String("options", "", "optional JSON file with solver options, overrides the flags above")
)

func main() {
	flag.Parse()
	defer log.Flush()

	inst, err := instance.Load(*dataFile)
	if err != nil {
		log.Exitf("cannot load instance %v: %v", *dataFile, err)
	}
	fmt.Printf("instance: %d tasks, %d resources, capacities %v\n", inst.NumTasks, inst.NumResources, inst.Capacities)

	opts := solver.DefaultOptions()
	opts.TimeLimit = *timeLimit
	opts.Workers = *workers
	if *optionsFile != "" {
		if opts, err = solver.OptionsFromJson(*optionsFile); err != nil {
			log.Exitf("cannot load solver options: %v", err)
		}
	}

	var backend solver.Solver
	switch *backendName {
	case "cpsat":
		backend = solver.NewCpSatSolver()
	case "branchbound":
		backend = solver.NewBranchBoundSolver()
	default:
		log.Exitf("unknown backend %q", *backendName)
	}

	reporter := report.NewReporter(backend, opts, os.Stdout)
	record := reporter.Run(context.Background(), inst, *bound)
	if record.Conclusion == report.Anomaly {
		os.Exit(2)
	}
}
