package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/favourites"
	"github.com/roach88/estate/internal/logging"
	"github.com/roach88/estate/internal/search"
	"github.com/roach88/estate/internal/testutil"
)

// Harness drives one scenario against a favourites store and a searcher
// on simulated time. Expiry timers only fire when an advance step moves
// the manual scheduler past their deadline.
type Harness struct {
	catalog  *catalog.Catalog
	store    *favourites.Store
	searcher *search.Searcher
	sched    *testutil.ManualScheduler
	clock    *testutil.DeterministicClock
	logger   logging.Logger

	result  *Result
	lastGen uint64
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger logging.Logger
}

// WithLogger routes store and searcher logs to l. Runs are silent by
// default.
func WithLogger(l logging.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// outcome is what a step produced, checked against its expect clause.
type outcome struct {
	result *bool
	search *search.Result
	valid  *search.ValidationResult
}

// Run executes a scenario and returns its trace and verdict.
//
// Each run gets a fresh store, searcher, logical clock and scheduler, so
// identical scenarios always produce identical traces. Expect clauses and
// assertions that fail are recorded on the result. An error is returned
// only when the scenario cannot be executed at all, such as an unknown
// property id or an unreadable catalog.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: logging.NewNoOp()}
	for _, opt := range opts {
		opt(&cfg)
	}

	cat, err := scenarioCatalog(s)
	if err != nil {
		return nil, err
	}

	sched := testutil.NewManualScheduler()
	h := &Harness{
		catalog: cat,
		sched:   sched,
		clock:   testutil.NewDeterministicClock(),
		logger:  cfg.logger.With(logging.Fields{"component": "harness", "scenario": s.Name}),
		result:  NewResult(),
	}
	h.store = favourites.New(
		favourites.WithScheduler(sched.AfterFunc),
		favourites.WithIDGenerator(testutil.NewFixedIDGenerator(s.SessionID)),
		favourites.WithLogger(cfg.logger),
	)
	defer h.store.Close()
	h.store.Subscribe(h.observe)

	h.searcher = search.NewSearcher(cat, search.WithLogger(cfg.logger))
	defer h.searcher.Stop()

	for i, step := range s.Steps {
		if err := h.execute(i, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
	}

	h.result.Final = h.finalState()
	for _, msg := range EvaluateAssertions(h.result, s.Assertions, h.store) {
		h.result.AddError(msg)
	}

	h.logger.Debug("scenario finished", logging.Fields{
		"pass":   h.result.Pass,
		"events": len(h.result.Trace),
	})
	return h.result, nil
}

func scenarioCatalog(s *Scenario) (*catalog.Catalog, error) {
	if s.Catalog == "" {
		return catalog.New(testutil.SampleProperties())
	}
	cat, err := catalog.Load(context.Background(), s.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func (h *Harness) execute(i int, step Step) error {
	idx := h.result.addEvent(TraceEvent{
		Type:   EventStep,
		Seq:    h.clock.Next(),
		AtMs:   h.now(),
		Action: step.Action,
		Args:   stepArgs(step),
	})

	var out outcome
	switch step.Action {
	case ActionAdd, ActionToggle:
		p, ok := h.catalog.ByID(step.ID)
		if !ok {
			return fmt.Errorf("unknown property %q", step.ID)
		}
		var r bool
		if step.Action == ActionAdd {
			r = h.store.Add(p)
		} else {
			r = h.store.Toggle(p)
		}
		out.result = &r
		h.result.Trace[idx].Result = r

	case ActionRemove:
		h.store.Remove(step.ID)

	case ActionClear:
		r := h.store.Clear(step.Confirmed)
		out.result = &r
		h.result.Trace[idx].Result = r

	case ActionAdvance:
		h.sched.Advance(time.Duration(step.Ms) * time.Millisecond)

	case ActionSearch:
		c, err := search.FromMap(step.Criteria)
		if err != nil {
			return err
		}
		res, err := h.searcher.Search(c)
		if err != nil {
			return err
		}
		out.search = &res
		out.valid = &res.Validation
		h.result.Trace[idx].Result = map[string]any{
			"ids":    testutil.IDs(res.Properties),
			"valid":  res.Validation.IsValid,
			"errors": res.Validation.Errors,
		}

	case ActionValidate:
		c, err := search.FromMap(step.Criteria)
		if err != nil {
			return err
		}
		v := search.Validate(c)
		out.valid = &v
		h.result.Trace[idx].Result = map[string]any{
			"valid":  v.IsValid,
			"errors": v.Errors,
		}

	case ActionCheck:
	}

	if step.Expect != nil {
		for _, msg := range checkExpect(step.Expect, h.store, out) {
			h.result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Action, msg))
		}
	}
	return nil
}

// observe turns store snapshots into notify and expire events.
func (h *Harness) observe(st favourites.State) {
	n := st.Notification
	switch {
	case n != nil && n.Generation != h.lastGen:
		h.lastGen = n.Generation
		h.result.addEvent(TraceEvent{
			Type:       EventNotify,
			Seq:        h.clock.Next(),
			AtMs:       h.now(),
			Message:    n.Message,
			Kind:       string(n.Kind),
			Generation: n.Generation,
		})
	case n == nil && h.lastGen != 0:
		h.result.addEvent(TraceEvent{
			Type:       EventExpire,
			Seq:        h.clock.Next(),
			AtMs:       h.now(),
			Generation: h.lastGen,
		})
		h.lastGen = 0
	}
}

func (h *Harness) now() int64 {
	return h.sched.Now().Milliseconds()
}

func (h *Harness) finalState() FinalState {
	final := FinalState{Favourites: testutil.IDs(h.store.Favourites())}
	if n := h.store.Notification(); n != nil {
		final.Notification = &NotificationExpect{Message: n.Message, Kind: string(n.Kind)}
	}
	return final
}

func stepArgs(step Step) map[string]any {
	switch step.Action {
	case ActionAdd, ActionRemove, ActionToggle:
		return map[string]any{"id": step.ID}
	case ActionClear:
		return map[string]any{"confirmed": step.Confirmed}
	case ActionAdvance:
		return map[string]any{"ms": step.Ms}
	case ActionSearch, ActionValidate:
		// Criteria are recorded in their parsed form so the trace matches
		// what the searcher saw.
		c, err := search.FromMap(step.Criteria)
		if err != nil {
			return map[string]any{"criteria": map[string]string{}}
		}
		return map[string]any{"criteria": c.Map()}
	}
	return nil
}
