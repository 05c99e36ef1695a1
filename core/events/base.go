package events

import "github.com/google/uuid"

type Kind string

// Event is the contract shared by everything that flows through the world
// log. Timestamps are world-clock milliseconds, monotonic per simulation run.
type Event interface {
	Kind() Kind
	ID() string
	Timestamp() int64
}

type Base struct {
	kind      Kind
	id        string
	timestamp int64
}

func NewBase(kind Kind, timestamp int64) Base {
	return Base{kind: kind, id: uuid.NewString(), timestamp: timestamp}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) ID() string {
	return b.id
}

func (b Base) Timestamp() int64 {
	return b.timestamp
}
