// The benchmark command sweeps every instance of a directory through the
// available backends, minimizing the makespan and then re-testing the found
// value as a bound, and writes one CSV row per run.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/limaJavier/rcpspcheck/internal/instance"
	"github.com/limaJavier/rcpspcheck/internal/model"
	"github.com/limaJavier/rcpspcheck/internal/solver"
)

type BackendType int

const (
	branchbound BackendType = iota
	cpsat
)

var (
	backendTypes = map[BackendType]string{
		branchbound: "branchbound",
		cpsat:       "cpsat",
	}
	backendConstructors = map[BackendType]func() solver.Solver{
		branchbound: solver.NewBranchBoundSolver,
		cpsat:       solver.NewCpSatSolver,
	}
)

type BenchmarkResult struct {
	Instance string
	Backend  BackendType
	Mode     string
	Bound    int64
	Status   solver.Status
	Makespan int64
	Duration time.Duration
}

var (
	directory = flag.String("dir", "testdata", "directory of .data instance files")
	output    = flag.String("out", "benchmark.csv", "CSV output file")
	timeLimit = flag.Duration("time_limit", time.Minute, "time budget per solver run")
)

func main() {
	flag.Parse()

	entries, err := os.ReadDir(*directory)
	if err != nil {
		log.Fatalf("cannot read instance directory: %v", err)
	}
	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), filepath.Ext(entry.Name()) == ".data"
	})
	if len(files) == 0 {
		log.Fatalf("no .data instances found in %v", *directory)
	}

	opts := solver.DefaultOptions()
	opts.TimeLimit = *timeLimit

	var results []BenchmarkResult
	for _, file := range files {
		inst, err := instance.Load(filepath.Join(*directory, file))
		if err != nil {
			log.Fatalf("cannot load %v: %v", file, err)
		}

		for backendType, newBackend := range backendConstructors {
			backend := newBackend()

			minimized := run(backend, model.BuildMinimize(inst), opts)
			results = append(results, BenchmarkResult{
				Instance: file,
				Backend:  backendType,
				Mode:     "minimize",
				Status:   minimized.Status,
				Makespan: minimized.Makespan,
				Duration: minimized.WallTime,
			})
			fmt.Printf("%v/%v minimize: %v (makespan %d, %v)\n",
				file, backendTypes[backendType], minimized.Status, minimized.Makespan, minimized.WallTime)

			if !minimized.Status.HasSolution() {
				continue
			}

			bounded := run(backend, model.BuildBounded(inst, minimized.Makespan), opts)
			results = append(results, BenchmarkResult{
				Instance: file,
				Backend:  backendType,
				Mode:     "bounded",
				Bound:    minimized.Makespan,
				Status:   bounded.Status,
				Makespan: bounded.Makespan,
				Duration: bounded.WallTime,
			})
			fmt.Printf("%v/%v bounded(%d): %v (%v)\n",
				file, backendTypes[backendType], minimized.Makespan, bounded.Status, bounded.WallTime)
		}
	}

	if err := writeCsv(*output, results); err != nil {
		log.Fatalf("cannot write results: %v", err)
	}
}

func run(backend solver.Solver, m *model.Model, opts solver.Options) solver.SolveResult {
	result, err := backend.Solve(context.Background(), m, opts)
	if err != nil {
		log.Printf("solver error: %v", err)
		return solver.SolveResult{Status: solver.Unknown}
	}
	return result
}

func writeCsv(path string, results []BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"instance", "backend", "mode", "bound", "status", "makespan", "millis"}); err != nil {
		return err
	}
	rows := lo.Map(results, func(result BenchmarkResult, _ int) []string {
		return []string{
			result.Instance,
			backendTypes[result.Backend],
			result.Mode,
			strconv.FormatInt(result.Bound, 10),
			result.Status.String(),
			strconv.FormatInt(result.Makespan, 10),
			strconv.FormatInt(result.Duration.Milliseconds(), 10),
		}
	})
	return writer.WriteAll(rows)
}
