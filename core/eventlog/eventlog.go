// Package eventlog declares the append-only world log consumed by the
// dialogue pipeline. The log is owned by the host simulation; the pipeline
// only appends reactions and range-queries trailing context.
package eventlog

import "github.com/ForgottenHistory/talker-core/core/events"

// Log is an append-only store of world events, queryable by time range.
//
// Store must retain the event unmodified; events are immutable once stored.
// EventsSince returns every stored event with a timestamp greater than or
// equal to the given world-clock millisecond, in chronological order. A call
// reflects only what has been appended at the moment it is made.
type Log interface {
	Store(event events.WorldEvent)
	EventsSince(timestamp int64) []events.WorldEvent
}
