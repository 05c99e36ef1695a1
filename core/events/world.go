package events

const (
	// KindWorldObserved identifies events produced by the simulation itself.
	KindWorldObserved Kind = "world.observed"
	// KindWorldUtterance identifies spoken-reaction events minted by the
	// pipeline and fed back into the log.
	KindWorldUtterance Kind = "world.utterance"
)

// WorldEvent is a single immutable entry in the world log. Witnesses keeps
// the entity ids in the order the simulation reported them.
type WorldEvent struct {
	Base
	Witnesses []string
	Payload   string
	Important bool
}

func (e WorldEvent) String() string { return e.Payload }

// SoleWitness returns the only witness of the event, if there is exactly one.
func (e WorldEvent) SoleWitness() (string, bool) {
	if len(e.Witnesses) != 1 {
		return "", false
	}
	return e.Witnesses[0], true
}

// NewObserved creates a routine world event.
func NewObserved(timestamp int64, witnesses []string, payload string) WorldEvent {
	return WorldEvent{
		Base:      NewBase(KindWorldObserved, timestamp),
		Witnesses: witnesses,
		Payload:   payload,
	}
}

// NewImportantObserved creates a world event whose importance bypasses the
// probabilistic part of the trigger gate.
func NewImportantObserved(timestamp int64, witnesses []string, payload string) WorldEvent {
	return WorldEvent{
		Base:      NewBase(KindWorldObserved, timestamp),
		Witnesses: witnesses,
		Payload:   payload,
		Important: true,
	}
}

// NewUtterance creates the feedback event for a displayed spoken line.
func NewUtterance(timestamp int64, witnesses []string, payload string) WorldEvent {
	return WorldEvent{
		Base:      NewBase(KindWorldUtterance, timestamp),
		Witnesses: witnesses,
		Payload:   payload,
	}
}
