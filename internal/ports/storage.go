package ports

// HintSettings holds inline-hint display settings for one language (or the
// global defaults). Options maps individual hint option IDs (for example
// "parameter.names" or "chained.calls") to an enabled flag.
type HintSettings struct {
	Enabled bool            `json:"enabled"`
	Options map[string]bool `json:"options,omitempty"`
}

// ProjectHints is the persisted inline-hint configuration for one project:
// global defaults plus per-language overrides.
type ProjectHints struct {
	Global    HintSettings            `json:"global"`
	Languages map[string]HintSettings `json:"languages,omitempty"`
}

// HintStore persists inline-hint settings per project.
//
// Crash safety: Save must be transactional. A crash mid-write must not
// corrupt previously committed settings.
type HintStore interface {
	// SaveHints persists the full hint configuration for a project,
	// overwriting any prior configuration.
	SaveHints(projectID string, h *ProjectHints) error

	// LoadHints retrieves the hint configuration for a project.
	// Returns nil, nil if none has been saved (fresh project).
	LoadHints(projectID string) (*ProjectHints, error)

	// DeleteHints removes the hint configuration for a project.
	// Idempotent: deleting absent configuration is not an error.
	DeleteHints(projectID string) error
}

// UsageEvent is a single validated usage-analytics event.
type UsageEvent struct {
	Project string         `json:"project"`
	Group   string         `json:"group"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data,omitempty"`
	Time    int64          `json:"time"`
}

// EventSink receives validated usage events. Implementations decide whether
// to aggregate, persist, or discard them.
type EventSink interface {
	Record(e UsageEvent) error
}

// EventCounter exposes aggregated usage counters for reporting.
type EventCounter interface {
	// Counters returns total event counts keyed "group/event".
	Counters(projectID string) (map[string]uint64, error)
}
