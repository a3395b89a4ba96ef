package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/deck/internal/ir"
)

// Scenario describes a deck, a sequence of operations and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup slides are loaded before the steps run.
	Setup []ir.Slide `yaml:"setup,omitempty"`

	// Deck is a deck document loaded instead of Setup.
	// Relative paths are resolved against the scenario file.
	Deck string `yaml:"deck,omitempty"`

	// Steps are invoked in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final deck and recording log.
	Assertions []Assertion `yaml:"assertions"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Step invokes one deck operation.
type Step struct {
	// Op is a recorded operation name, e.g. "slides.move".
	Op string `yaml:"op"`

	// Args uses the recorded argument layout.
	Args map[string]any `yaml:"args,omitempty"`

	// ExpectError is the DeckError code the step must fail with.
	// Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the final deck or recording log.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// ID is the slide id (active, slide).
	ID string `yaml:"id,omitempty"`

	// Number is the active slide number; 0 means no slide is active (active).
	Number *int64 `yaml:"number,omitempty"`

	// IDs are slide ids in ascending number order (order).
	IDs []string `yaml:"ids,omitempty"`

	// Count is the expected number of slides (count) or recordings (recorded).
	Count *int `yaml:"count,omitempty"`

	// Operation is a recorded operation name (recorded).
	Operation string `yaml:"operation,omitempty"`

	// Operations is the full recorded operation sequence (recorded_order).
	Operations []string `yaml:"operations,omitempty"`

	// Expect holds slide field values, subset match (slide).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertActive        = "active"
	AssertOrder         = "order"
	AssertCount         = "count"
	AssertSlide         = "slide"
	AssertRecorded      = "recorded"
	AssertRecordedOrder = "recorded_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario := Scenario{Path: path}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Deck != "" && !filepath.IsAbs(scenario.Deck) {
		scenario.Deck = filepath.Join(filepath.Dir(path), scenario.Deck)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Deck != "" && len(s.Setup) > 0 {
		return fmt.Errorf("deck and setup are mutually exclusive")
	}
	if s.Deck != "" {
		if _, err := os.Stat(s.Deck); os.IsNotExist(err) {
			return fmt.Errorf("deck file not found: %s", s.Deck)
		}
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !ir.RecordedOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertActive:
		if a.ID == "" && a.Number == nil {
			return fmt.Errorf("assertions[%d]: id or number is required for active", index)
		}
	case AssertOrder:
		if a.IDs == nil {
			return fmt.Errorf("assertions[%d]: ids list is required for order", index)
		}
	case AssertCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for count", index)
		}
	case AssertSlide:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for slide", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for slide", index)
		}
		for field := range a.Expect {
			if !ir.IsSlideField(field) {
				return fmt.Errorf("assertions[%d]: unknown slide field %q", index, field)
			}
		}
	case AssertRecorded:
		if a.Operation == "" {
			return fmt.Errorf("assertions[%d]: operation is required for recorded", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for recorded", index)
		}
	case AssertRecordedOrder:
		if a.Operations == nil {
			return fmt.Errorf("assertions[%d]: operations list is required for recorded_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
