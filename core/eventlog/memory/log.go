// Package memory provides an in-memory event log, used by tests and by
// hosts that keep the world log inside the simulation process.
package memory

import (
	"sort"
	"sync"

	"github.com/ForgottenHistory/talker-core/core/eventlog"
	"github.com/ForgottenHistory/talker-core/core/events"
)

var _ eventlog.Log = (*Log)(nil)

// Log keeps events in append order. The pipeline is the single writer but
// range queries may run concurrently with appends from other in-flight
// reactions.
type Log struct {
	mu     sync.RWMutex
	events []events.WorldEvent
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Store(event events.WorldEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
}

func (l *Log) EventsSince(timestamp int64) []events.WorldEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Appends arrive in world-clock order, so the suffix starting at the
	// first event >= timestamp is the whole answer.
	first := sort.Search(len(l.events), func(i int) bool {
		return l.events[i].Timestamp() >= timestamp
	})

	window := make([]events.WorldEvent, len(l.events)-first)
	copy(window, l.events[first:])
	return window
}

// Len reports the number of stored events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.events)
}
