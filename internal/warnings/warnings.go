// Package warnings collects non-fatal defects encountered during a report
// run so they can be logged as they happen and rendered into the final
// document.
package warnings

import (
	"fmt"
	"log/slog"
)

// Warning is one recoverable defect: a corrupt artifact, a missing field,
// a degenerate derivation, or a baseline disagreement.
type Warning struct {
	Source string // file path or stage name the warning originated from
	Detail string
}

func (w Warning) String() string {
	if w.Source == "" {
		return w.Detail
	}
	return fmt.Sprintf("%s: %s", w.Source, w.Detail)
}

// Sink accumulates warnings in append order. Append order is deterministic
// because the whole pipeline is single-threaded.
type Sink struct {
	items []Warning
}

// Add records a warning and logs it at Warn level.
func (s *Sink) Add(source, format string, args ...any) {
	w := Warning{Source: source, Detail: fmt.Sprintf(format, args...)}
	s.items = append(s.items, w)
	slog.Warn(w.Detail, "source", source)
}

// Items returns the collected warnings in the order they were added.
func (s *Sink) Items() []Warning {
	return s.items
}

// Len returns the number of collected warnings.
func (s *Sink) Len() int {
	return len(s.items)
}
