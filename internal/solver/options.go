package solver

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
)

type SearchStrategy int

const (
	AutomaticSearch SearchStrategy = iota
	FixedSearch
)

// Options is the per-call solver configuration. Runs never share or mutate
// process-wide solver state; every Solve call carries its own copy.
type Options struct {
	TimeLimit   time.Duration
	Workers     int
	Strategy    SearchStrategy
	LogProgress bool
}

func DefaultOptions() Options {
	return Options{
		TimeLimit: 30 * time.Minute,
		Workers:   1,
		Strategy:  AutomaticSearch,
	}
}

type optionsJson struct {
	TimeLimitSeconds float64 `mapstructure:"timeLimitSeconds"`
	Workers          int     `mapstructure:"workers"`
	Strategy         string  `mapstructure:"strategy"`
	LogProgress      bool    `mapstructure:"logProgress"`
}

// OptionsFromJson reads solver options from a JSON file. Absent fields keep
// their default values.
func OptionsFromJson(file string) (Options, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Options{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return Options{}, err
	}

	decoded := optionsJson{
		TimeLimitSeconds: DefaultOptions().TimeLimit.Seconds(),
		Workers:          DefaultOptions().Workers,
	}
	if err := mapstructure.Decode(raw, &decoded); err != nil {
		return Options{}, err
	}

	options := Options{
		TimeLimit:   time.Duration(decoded.TimeLimitSeconds * float64(time.Second)),
		Workers:     decoded.Workers,
		LogProgress: decoded.LogProgress,
	}
	switch decoded.Strategy {
	case "", "automatic":
		options.Strategy = AutomaticSearch
	case "fixed":
		options.Strategy = FixedSearch
	default:
		return Options{}, fmt.Errorf("unknown search strategy %q", decoded.Strategy)
	}
	return options, nil
}
