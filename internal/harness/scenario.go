package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted favourites and search session.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Catalog is a catalog file path. Relative paths are resolved against
	// the scenario file's directory by LoadScenario. Empty means the
	// built-in five-property sample.
	Catalog string `yaml:"catalog,omitempty"`

	// SessionID fixes the store's session id. Defaults to
	// "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step actions.
const (
	ActionAdd      = "add"
	ActionRemove   = "remove"
	ActionToggle   = "toggle"
	ActionClear    = "clear"
	ActionAdvance  = "advance"
	ActionSearch   = "search"
	ActionValidate = "validate"
	ActionCheck    = "check"
)

// Step is one scripted action.
type Step struct {
	Action string `yaml:"action"`

	// ID is the property id for add, remove and toggle.
	ID string `yaml:"id,omitempty"`

	// Confirmed is passed to clear.
	Confirmed bool `yaml:"confirmed,omitempty"`

	// Ms is the simulated time advance in milliseconds.
	Ms int64 `yaml:"ms,omitempty"`

	// Criteria for search and validate, keyed by criteria field name.
	Criteria map[string]any `yaml:"criteria,omitempty"`

	// Expect is checked after the step runs.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists conditions checked after a step or at the end of a run.
// Only the fields that are set are checked.
type Expect struct {
	// Result is the boolean returned by add, toggle or clear.
	Result *bool `yaml:"result,omitempty"`

	Count *int `yaml:"count,omitempty"`

	// Favourites is the exact favourite id list, in insertion order.
	Favourites []string `yaml:"favourites,omitempty"`

	// IsFavourite maps property ids to expected membership.
	IsFavourite map[string]bool `yaml:"is_favourite,omitempty"`

	Notification   *NotificationExpect `yaml:"notification,omitempty"`
	NoNotification bool                `yaml:"no_notification,omitempty"`

	// IDs is the exact search result id list. Use [] for no results.
	IDs []string `yaml:"ids,omitempty"`

	// Valid and Errors describe the validation outcome of search or
	// validate.
	Valid  *bool    `yaml:"valid,omitempty"`
	Errors []string `yaml:"errors,omitempty"`
}

// NotificationExpect matches a visible notification.
type NotificationExpect struct {
	Message string `yaml:"message" json:"message"`
	Kind    string `yaml:"kind,omitempty" json:"kind"`
}

// Assertion types.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// Assertion validates the trace or the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Action is used by trace_contains and trace_count.
	Action string `yaml:"action,omitempty"`

	// Args is a subset match on step args, used by trace_contains.
	Args map[string]any `yaml:"args,omitempty"`

	// Count is used by trace_count.
	Count int `yaml:"count,omitempty"`

	// Actions is used by trace_order.
	Actions []string `yaml:"actions,omitempty"`

	// Expect is used by final_state.
	Expect *Expect `yaml:"expect,omitempty"`
}

// LoadScenario reads a scenario file. Unknown fields are rejected and a
// relative catalog path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.Catalog != "" && !filepath.IsAbs(s.Catalog) {
		s.Catalog = filepath.Join(filepath.Dir(path), s.Catalog)
	}
	if s.Catalog != "" {
		if _, err := os.Stat(s.Catalog); err != nil {
			return nil, fmt.Errorf("invalid scenario: catalog not found: %s", s.Catalog)
		}
	}
	return s, nil
}

// ParseScenario decodes and validates a scenario document. Catalog paths
// are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

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

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch step.Action {
	case ActionAdd, ActionRemove, ActionToggle:
		if step.ID == "" {
			return fmt.Errorf("steps[%d]: id is required for %s", i, step.Action)
		}
	case ActionAdvance:
		if step.Ms <= 0 {
			return fmt.Errorf("steps[%d]: ms must be positive for advance", i)
		}
	case ActionClear, ActionSearch, ActionValidate, ActionCheck:
	case "":
		return fmt.Errorf("steps[%d]: action is required", i)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", i, step.Action)
	}

	if step.Action == ActionCheck && step.Expect == nil {
		return fmt.Errorf("steps[%d]: check requires expect", i)
	}
	if len(step.Criteria) > 0 && step.Action != ActionSearch && step.Action != ActionValidate {
		return fmt.Errorf("steps[%d]: criteria only applies to search and validate", i)
	}
	return nil
}

func validateAssertion(i int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", i)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", i)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", i)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", i)
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", i)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}
