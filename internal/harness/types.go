package harness

// Trace event types.
const (
	EventStep   = "step"
	EventNotify = "notify"
	EventExpire = "expire"
)

// TraceEvent is one entry of a scenario trace.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`
	AtMs int64  `json:"at_ms"`

	// Step events.
	Action string         `json:"action,omitempty"`
	Args   map[string]any `json:"args,omitempty"`
	Result any            `json:"result,omitempty"`

	// Notify and expire events.
	Message    string `json:"message,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}

// FinalState is the store as it stood after the last step.
type FinalState struct {
	Favourites   []string            `json:"favourites"`
	Notification *NotificationExpect `json:"notification,omitempty"`
}

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass   bool         `json:"pass"`
	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
	Final  FinalState   `json:"final"`
}

// NewResult returns an empty passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends e and returns its index.
func (r *Result) addEvent(e TraceEvent) int {
	r.Trace = append(r.Trace, e)
	return len(r.Trace) - 1
}
