package match

import "log/slog"

// Step identifies which matching rule produced a trace event.
type Step string

const (
	StepKind     Step = "kind"
	StepField    Step = "field"
	StepLiteral  Step = "literal"
	StepWildcard Step = "wildcard"
	StepCapture  Step = "capture"
)

// Event is one structured matching step: the pattern subterm attempted,
// the candidate value it was compared against, and the outcome.
type Event struct {
	Step    Step
	Pattern string
	Field   string
	Value   string
	Matched bool
}

// Tracer receives matching events. Implementations must be safe for the
// synchronous call pattern of a single search; the matcher never calls a
// tracer concurrently within one search.
type Tracer interface {
	Trace(Event)
}

// SlogTracer logs every event at debug level.
type SlogTracer struct {
	Logger *slog.Logger
}

// NewSlogTracer returns a tracer logging to the given logger, or to
// slog.Default when nil.
func NewSlogTracer(logger *slog.Logger) *SlogTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTracer{Logger: logger}
}

func (t *SlogTracer) Trace(ev Event) {
	t.Logger.Debug("match step",
		"step", string(ev.Step),
		"pattern", ev.Pattern,
		"field", ev.Field,
		"value", ev.Value,
		"matched", ev.Matched,
	)
}

// Recorder accumulates events in order, for tests and diagnostics.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Trace(ev Event) {
	r.Events = append(r.Events, ev)
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
