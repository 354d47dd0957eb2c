package usage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/treegrep/internal/ports"
)

type memSink struct {
	events []ports.UsageEvent
	err    error
}

func (m *memSink) Record(e ports.UsageEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func newTestLogger(sink ports.EventSink) *Logger {
	l := NewLogger("proj", sink, nil)
	l.now = func() int64 { return 1700000000 }
	return l
}

func TestLog_RegisteredGroup(t *testing.T) {
	sink := &memSink{}
	l := newTestLogger(sink)
	l.Register("search", 2)

	l.Log("search", "executed")
	l.LogData("search", "executed", map[string]any{"files": 3})

	require.Len(t, sink.events, 2)
	assert.Equal(t, "proj", sink.events[0].Project)
	assert.Equal(t, "search", sink.events[0].Group)
	assert.Equal(t, "executed", sink.events[0].Event)
	assert.Equal(t, int64(1700000000), sink.events[0].Time)
	assert.Equal(t, map[string]any{"files": 3}, sink.events[1].Data)
}

func TestLog_UnregisteredGroupDropped(t *testing.T) {
	sink := &memSink{}
	l := newTestLogger(sink)

	l.Log("unknown", "executed")
	assert.Empty(t, sink.events)
}

func TestLogRegisteredGroups(t *testing.T) {
	sink := &memSink{}
	l := newTestLogger(sink)
	l.Register("search", 2)
	l.Register("hints", 1)

	l.LogRegisteredGroups()

	require.Len(t, sink.events, 2)
	versions := map[string]any{}
	for _, e := range sink.events {
		assert.Equal(t, RegisteredEvent, e.Event)
		versions[e.Group] = e.Data["version"]
	}
	assert.Equal(t, map[string]any{"search": 2, "hints": 1}, versions)
}

func TestLog_SinkErrorDoesNotPanic(t *testing.T) {
	l := newTestLogger(&memSink{err: errors.New("disk full")})
	l.Register("search", 1)

	assert.NotPanics(t, func() { l.Log("search", "executed") })
}
