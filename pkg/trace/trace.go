// Package trace records which extraction path produced each decision so
// that pipeline behavior can be inspected and asserted on after a run.
package trace

import "go.uber.org/zap"

// Path identifies a decision point in the extraction pipeline.
type Path string

const (
	// PathExclusionPhrase fires when a section is discarded because it
	// reassigns duties instead of moving personnel.
	PathExclusionPhrase Path = "exclusion_phrase"

	// PathDirectMobilization fires when the dedicated mobilization-arrival
	// pattern matches before generic list handling.
	PathDirectMobilization Path = "direct_mobilization"

	// PathListBlock fires when a personnel list block is carved out.
	PathListBlock Path = "list_block"

	// PathNumberedEntry fires for entries found by numbered-list parsing.
	PathNumberedEntry Path = "numbered_entry"

	// PathLinePerEntry fires for entries found by line-oriented parsing.
	PathLinePerEntry Path = "line_per_entry"

	// PathInlineList fires for entries found in a single run-on list line.
	PathInlineList Path = "inline_list"

	// PathCommaSplit fires when a block is re-read by comma splitting to
	// reach the declared head count.
	PathCommaSplit Path = "comma_split"

	// PathInferredRank fires when a bare surname triple is attributed the
	// most recently seen rank instead of an explicit one.
	PathInferredRank Path = "inferred_rank"

	// PathStandardPattern fires for entries found by the ordered standard
	// rank-plus-name patterns outside list blocks.
	PathStandardPattern Path = "standard_pattern"

	// PathDuplicateSkip fires when a person is dropped by the dedup tracker.
	PathDuplicateSkip Path = "duplicate_skip"

	// PathCountMismatch fires when a list block yields fewer people than
	// its declared head count.
	PathCountMismatch Path = "count_mismatch"

	// PathSectionDetected fires for every segmented section.
	PathSectionDetected Path = "section_detected"

	// PathSectionRefined fires when context sniffing changes a section kind.
	PathSectionRefined Path = "section_refined"

	// PathKeywordFallback fires when unauthorized-absence discovery falls
	// back from numbered points to raw keyword search.
	PathKeywordFallback Path = "keyword_fallback"

	// PathBudgetExceeded fires when the absence search stops on its
	// wall-clock budget.
	PathBudgetExceeded Path = "budget_exceeded"

	// PathDateFallback fires when a processor substitutes a default or
	// inherited date for a missing one.
	PathDateFallback Path = "date_fallback"

	// PathWindowFallback fires when the arrival phrase marker is missing
	// and the whole document is processed as the arrival block.
	PathWindowFallback Path = "window_fallback"
)

// Event is one recorded decision.
type Event struct {
	Path   Path   `json:"path"`
	Detail string `json:"detail,omitempty"`
}

// Log collects decision events and mirrors them to a zap logger. The
// zero value and a nil *Log are both safe to use.
type Log struct {
	logger *zap.Logger
	events []Event
}

// New returns a Log backed by the given logger. A nil logger is
// replaced with zap.NewNop().
func New(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Record appends an event and logs it at debug level.
func (l *Log) Record(path Path, detail string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.events = append(l.events, Event{Path: path, Detail: detail})
	if l.logger != nil {
		fields = append(fields, zap.String("path", string(path)), zap.String("detail", detail))
		l.logger.Debug("decision", fields...)
	}
}

// Events returns all recorded events in order.
func (l *Log) Events() []Event {
	if l == nil {
		return nil
	}
	return l.events
}

// Has reports whether any event with the given path was recorded.
func (l *Log) Has(path Path) bool {
	if l == nil {
		return false
	}
	for _, e := range l.events {
		if e.Path == path {
			return true
		}
	}
	return false
}

// Count returns the number of events recorded for the given path.
func (l *Log) Count(path Path) int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.events {
		if e.Path == path {
			n++
		}
	}
	return n
}
