package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/estate/internal/favourites"
	"github.com/roach88/estate/internal/testutil"
)

// AssertionError is returned when an assertion fails. It carries the
// trace so the failure can be read without re-running the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, describeEvent(event))
		}
	}

	return buf.String()
}

func describeEvent(e TraceEvent) string {
	switch e.Type {
	case EventStep:
		return fmt.Sprintf("%dms step %s %v", e.AtMs, e.Action, e.Args)
	case EventNotify:
		return fmt.Sprintf("%dms notify #%d %s %q", e.AtMs, e.Generation, e.Kind, e.Message)
	case EventExpire:
		return fmt.Sprintf("%dms expire #%d", e.AtMs, e.Generation)
	}
	return e.Type
}

// EvaluateAssertions checks every assertion and returns one message per
// failure, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion, store *favourites.Store) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(store, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

// eventName is the name an assertion uses for an event: the action of a
// step, or the event type for notify and expire.
func eventName(e TraceEvent) string {
	if e.Type == EventStep {
		return e.Action
	}
	return e.Type
}

// assertTraceContains looks for an event named by the assertion whose
// args include every assertion arg.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if eventName(event) == a.Action && matchArgs(event, a.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s with args %v", a.Action, a.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first occurrence of each named event
// comes before the first occurrence of the next. Other events may appear
// in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		name := eventName(event)
		if _, seen := positions[name]; !seen {
			positions[name] = i + 1
		}
	}

	for _, name := range a.Actions {
		if positions[name] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all present: %v", a.Actions),
				Actual:   fmt.Sprintf("missing: %s", name),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Actions); i++ {
		prev, curr := a.Actions[i-1], a.Actions[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("in order: %v", a.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks the exact number of events with the given name.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if eventName(event) == a.Action {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks the store after the last step.
func assertFinalState(store *favourites.Store, a Assertion) error {
	if a.Expect == nil {
		return fmt.Errorf("final_state assertion requires expect")
	}
	msgs := checkExpect(a.Expect, store, outcome{})
	if len(msgs) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: "store state to match expect",
		Actual:   strings.Join(msgs, "; "),
	}
}

// matchArgs reports whether every wanted arg is present on a step event
// with an equal value. Values are compared by their printed form, so a
// YAML integer matches an int64 arg. Notify and expire events match on
// message, kind and generation.
func matchArgs(event TraceEvent, want map[string]any) bool {
	have := event.Args
	if event.Type != EventStep {
		have = map[string]any{
			"message":    event.Message,
			"kind":       event.Kind,
			"generation": event.Generation,
		}
	}
	for k, v := range want {
		got, ok := have[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// checkExpect compares an expect clause with the store and the step
// outcome, returning one message per mismatch.
func checkExpect(e *Expect, store *favourites.Store, out outcome) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if e.Result != nil {
		switch {
		case out.result == nil:
			fail("result expected but the action returns none")
		case *out.result != *e.Result:
			fail("result: expected %t, got %t", *e.Result, *out.result)
		}
	}

	if e.Count != nil {
		if got := store.Count(); got != *e.Count {
			fail("count: expected %d, got %d", *e.Count, got)
		}
	}

	if e.Favourites != nil {
		got := testutil.IDs(store.Favourites())
		if !slices.Equal(got, e.Favourites) {
			fail("favourites: expected %v, got %v", e.Favourites, got)
		}
	}

	for _, id := range sortedIDs(e.IsFavourite) {
		if got := store.IsFavourite(id); got != e.IsFavourite[id] {
			fail("is_favourite %s: expected %t, got %t", id, e.IsFavourite[id], got)
		}
	}

	n := store.Notification()
	if e.NoNotification && n != nil {
		fail("notification: expected none, got %q", n.Message)
	}
	if e.Notification != nil {
		switch {
		case n == nil:
			fail("notification: expected %q, got none", e.Notification.Message)
		case n.Message != e.Notification.Message:
			fail("notification: expected %q, got %q", e.Notification.Message, n.Message)
		case e.Notification.Kind != "" && string(n.Kind) != e.Notification.Kind:
			fail("notification kind: expected %s, got %s", e.Notification.Kind, n.Kind)
		}
	}

	if e.IDs != nil {
		if out.search == nil {
			fail("ids expected but the action is not a search")
		} else if got := testutil.IDs(out.search.Properties); !slices.Equal(got, e.IDs) {
			fail("ids: expected %v, got %v", e.IDs, got)
		}
	}

	if e.Valid != nil || e.Errors != nil {
		if out.valid == nil {
			fail("validation expected but the action does not validate")
			return errs
		}
		if e.Valid != nil && out.valid.IsValid != *e.Valid {
			fail("valid: expected %t, got %t", *e.Valid, out.valid.IsValid)
		}
		if e.Errors != nil && !slices.Equal(out.valid.Errors, e.Errors) {
			fail("errors: expected %v, got %v", e.Errors, out.valid.Errors)
		}
	}

	return errs
}

func sortedIDs(m map[string]bool) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
