// Package script parses YAML session scripts.
package script

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Step kinds as they appear in script files.
const (
	KindCall   = "call"
	KindLog    = "log"
	KindType   = "type"
	KindWait   = "wait"
	KindAssert = "assert"
)

// File is a parsed script.
type File struct {
	Session Options
	Steps   []Step
}

// Options carries session-level settings.
type Options struct {
	Delay  time.Duration     `yaml:"delay"`
	Typing string            `yaml:"typing"`
	Log    Target            `yaml:"log"`
	Vars   map[string]string `yaml:"vars"`
}

// Target selects a trace sink.
type Target struct {
	Target string `yaml:"target"`
	Name   string `yaml:"name"`
}

// Step is one script entry, written as a single-key mapping like
// `- call: greet`.
type Step struct {
	Kind string
	Arg  string
	Wait time.Duration
}

// rawFile mirrors the YAML document shape. Steps stay as nodes so parse
// errors can carry line numbers.
type rawFile struct {
	Session Options     `yaml:"session"`
	Steps   []yaml.Node `yaml:"steps"`
}

// Load reads and parses a script file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse parses script bytes.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	if err := validateOptions(raw.Session); err != nil {
		return nil, err
	}

	file := &File{Session: raw.Session}
	for i := range raw.Steps {
		step, err := parseStep(&raw.Steps[i])
		if err != nil {
			return nil, err
		}
		file.Steps = append(file.Steps, step)
	}
	return file, nil
}

func validateOptions(opts Options) error {
	switch opts.Typing {
	case "", "instant", "human":
		return nil
	}
	return fmt.Errorf("typing must be \"instant\" or \"human\", got %q", opts.Typing)
}

// parseStep decodes one `- kind: value` mapping.
func parseStep(node *yaml.Node) (Step, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return Step{}, fmt.Errorf("line %d: step must be a single `kind: value` mapping", node.Line)
	}
	key := node.Content[0].Value
	val := node.Content[1]

	switch key {
	case KindCall, KindLog, KindType, KindAssert:
		var arg string
		if err := val.Decode(&arg); err != nil {
			return Step{}, fmt.Errorf("line %d: %s: %w", val.Line, key, err)
		}
		return Step{Kind: key, Arg: arg}, nil
	case KindWait:
		d, err := parseWait(val.Value)
		if err != nil {
			return Step{}, fmt.Errorf("line %d: %w", val.Line, err)
		}
		return Step{Kind: key, Wait: d}, nil
	}
	return Step{}, fmt.Errorf("line %d: unknown step %q", node.Content[0].Line, key)
}

// parseWait accepts Go durations ("200ms") and bare seconds ("0.2").
func parseWait(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("wait must not be negative: %s", s)
		}
		return d, nil
	}
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		if sec < 0 {
			return 0, fmt.Errorf("wait must not be negative: %s", s)
		}
		return time.Duration(sec * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("invalid wait %q", s)
}
