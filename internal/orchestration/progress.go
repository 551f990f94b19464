package orchestration

import "github.com/brandnamegen/brandcheck/internal/models"

// ProgressListener receives progress updates. Locale and component events
// may arrive concurrently from different goroutines.
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventEvaluationStart    EventType = "evaluation_start"
	EventEvaluationComplete EventType = "evaluation_complete"
	EventEvaluationCached   EventType = "evaluation_cached"
	EventLocaleStart        EventType = "locale_start"
	EventLocaleComplete     EventType = "locale_complete"
	EventComponentComplete  EventType = "component_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType    EventType
	Title        string
	Locale       string
	LocaleNum    int
	TotalLocales int
	Component    models.ComponentName
	Score        int
	DurationMs   int64
	// Warning is set on EventComponentComplete when the provider failed.
	Warning string
	Details map[string]any
}

// OnProgress registers a progress listener
func (e *Evaluator) OnProgress(listener ProgressListener) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	e.listeners = append(e.listeners, listener)
}

func (e *Evaluator) notifyProgress(event ProgressEvent) {
	e.progressMu.Lock()
	listeners := make([]ProgressListener, len(e.listeners))
	copy(listeners, e.listeners)
	e.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}
