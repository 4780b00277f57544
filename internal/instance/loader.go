package instance

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseError describes a malformed instance file. Line is 1-based and refers
// to the offending non-blank line of the file.
type ParseError struct {
	Line int
	Msg  string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", err.Line, err.Msg)
}

// Load parses a whitespace-delimited RCPSP instance file:
//
//	N R
//	cap_1 ... cap_R
//	dur d_1 ... d_R sep succ_1 ... succ_k    (N times)
//
// The separator field after the demand columns is a positional placeholder and
// is discarded. Successor entries <= 0 are padding and are dropped.
func Load(path string) (*Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := readLines(file)
	if len(lines) == 0 {
		return nil, &ParseError{Line: 1, Msg: "empty file"}
	}

	header, err := parseInts(lines[0])
	if err != nil {
		return nil, &ParseError{Line: 1, Msg: err.Error()}
	}
	if len(header) != 2 {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("expected \"N R\" header, got %d fields", len(header))}
	}
	numTasks, numResources := int(header[0]), int(header[1])
	if numTasks <= 0 || numResources <= 0 {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("invalid problem size %dx%d", numTasks, numResources)}
	}
	if len(lines) != numTasks+2 {
		return nil, &ParseError{Line: len(lines), Msg: fmt.Sprintf("expected %d lines for %d tasks, got %d", numTasks+2, numTasks, len(lines))}
	}

	capacities, err := parseInts(lines[1])
	if err != nil {
		return nil, &ParseError{Line: 2, Msg: err.Error()}
	}
	if len(capacities) != numResources {
		return nil, &ParseError{Line: 2, Msg: fmt.Sprintf("expected %d capacities, got %d", numResources, len(capacities))}
	}
	if lo.SomeBy(capacities, func(capacity int64) bool { return capacity < 0 }) {
		return nil, &ParseError{Line: 2, Msg: "negative resource capacity"}
	}

	inst := &Instance{
		NumTasks:     numTasks,
		NumResources: numResources,
		Capacities:   capacities,
		Tasks:        make([]Task, 0, numTasks),
	}
	for t := range numTasks {
		lineNumber := t + 3
		task, err := parseTask(lines[t+2], numResources, numTasks)
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Msg: err.Error()}
		}
		inst.Tasks = append(inst.Tasks, task)
	}

	return inst, nil
}

func parseTask(line string, numResources, numTasks int) (Task, error) {
	fields, err := parseInts(line)
	if err != nil {
		return Task{}, err
	}

	// dur, R demands and the separator are mandatory; successors are optional.
	if len(fields) < numResources+2 {
		return Task{}, fmt.Errorf("expected at least %d fields, got %d", numResources+2, len(fields))
	}

	duration := fields[0]
	if duration < 0 {
		return Task{}, fmt.Errorf("negative duration %d", duration)
	}

	demands := fields[1 : numResources+1]
	if lo.SomeBy(demands, func(demand int64) bool { return demand < 0 }) {
		return Task{}, fmt.Errorf("negative resource demand")
	}

	successors := lo.FilterMap(fields[numResources+2:], func(field int64, _ int) (int, bool) {
		return int(field), field > 0
	})
	for _, successor := range successors {
		if successor > numTasks {
			return Task{}, fmt.Errorf("successor %d out of range (instance has %d tasks)", successor, numTasks)
		}
	}

	return Task{Duration: duration, Demands: demands, Successors: successors}, nil
}

func parseInts(line string) ([]int64, error) {
	fields := strings.Fields(line)
	values := make([]int64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", field)
		}
		values = append(values, value)
	}
	return values, nil
}

func readLines(file *os.File) []string {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
