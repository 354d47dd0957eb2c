// Package usage is a grouped usage-event logger. Event groups must be
// registered with a version before events are accepted; an event for an
// unregistered group is dropped with a warning instead of polluting the
// counters. Validated events flow to an EventSink.
package usage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/corey/treegrep/internal/ports"
)

// RegisteredEvent is the baseline event recorded for every known group so
// that reports can tell "group inactive" apart from "group unknown".
const RegisteredEvent = "registered"

// Logger validates and forwards usage events for one project.
type Logger struct {
	project string
	sink    ports.EventSink
	log     *slog.Logger

	mu     sync.RWMutex
	groups map[string]int

	now func() int64
}

// NewLogger builds a usage logger for a project. log may be nil.
func NewLogger(project string, sink ports.EventSink, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{
		project: project,
		sink:    sink,
		log:     log,
		groups:  make(map[string]int),
		now:     func() int64 { return time.Now().Unix() },
	}
}

// Register declares an event group with its schema version. Events for the
// group are accepted from this point on.
func (l *Logger) Register(group string, version int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.groups[group] = version
}

// Log records a bare counter event.
func (l *Logger) Log(group, event string) {
	l.LogData(group, event, nil)
}

// LogData records a counter event with context data. Events for groups that
// were never registered are dropped.
func (l *Logger) LogData(group, event string, data map[string]any) {
	l.mu.RLock()
	_, known := l.groups[group]
	l.mu.RUnlock()
	if !known {
		l.log.Warn("usage event for unregistered group dropped",
			"group", group, "event", event)
		return
	}
	l.record(group, event, data)
}

// LogRegisteredGroups emits the baseline "registered" event for every known
// group, tagged with the group's version.
func (l *Logger) LogRegisteredGroups() {
	l.mu.RLock()
	groups := make(map[string]int, len(l.groups))
	for g, v := range l.groups {
		groups[g] = v
	}
	l.mu.RUnlock()

	for g, v := range groups {
		l.record(g, RegisteredEvent, map[string]any{"version": v})
	}
}

func (l *Logger) record(group, event string, data map[string]any) {
	e := ports.UsageEvent{
		Project: l.project,
		Group:   group,
		Event:   event,
		Data:    data,
		Time:    l.now(),
	}
	if err := l.sink.Record(e); err != nil {
		l.log.Error("usage event not recorded",
			"group", group, "event", event, "err", err)
	}
}
