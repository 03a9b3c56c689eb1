package solver

import "log/slog"

// Trace is the optional diagnostic sink retained by debug artifacts. The
// engine reports search milestones to it; a production artifact uses the
// no-op implementation.
type Trace interface {
	Placement(mode Mode, mapping []MappingEntry, cost float64)
	SwapChain(sourceIndex int, path []string)
	Event(msg string, args ...any)
}

type nopTrace struct{}

func (nopTrace) Placement(Mode, []MappingEntry, float64) {}
func (nopTrace) SwapChain(int, []string)                 {}
func (nopTrace) Event(string, ...any)                    {}

// NopTrace returns a trace sink that discards everything.
func NopTrace() Trace { return nopTrace{} }

type logTrace struct {
	logger *slog.Logger
}

// SlogTrace returns a trace sink that writes search milestones to a logger
// at debug level.
func SlogTrace(logger *slog.Logger) Trace {
	return &logTrace{logger: logger}
}

func (t *logTrace) Placement(mode Mode, mapping []MappingEntry, cost float64) {
	attrs := make([]any, 0, 2*len(mapping)+4)
	attrs = append(attrs, "mode", string(mode), "cost", cost)
	for _, e := range mapping {
		attrs = append(attrs, "logical", e.Logical, "physical", e.Physical)
	}
	t.logger.Debug("placement selected", attrs...)
}

func (t *logTrace) SwapChain(sourceIndex int, path []string) {
	t.logger.Debug("swap chain inserted", "source_index", sourceIndex, "path", path)
}

func (t *logTrace) Event(msg string, args ...any) {
	t.logger.Debug(msg, args...)
}
