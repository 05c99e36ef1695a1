package orchestration

import "github.com/ForgottenHistory/talker-core/core/events"

// DefaultDialogueChance is the probability that a routine event triggers a
// spoken reaction.
const DefaultDialogueChance = 0.15

// triggerPolicy is the stateless gate in front of speech generation. Each
// call draws independently; nothing is remembered across events.
type triggerPolicy struct {
	chance             float64
	roll               func() float64
	isPlayerControlled func(entityID string) bool
}

func (p triggerPolicy) decide(event events.WorldEvent) bool {
	// A player-controlled sole witness suppresses the reaction outright,
	// importance included: the player speaks for themselves.
	if witness, ok := event.SoleWitness(); ok && p.isPlayerControlled(witness) {
		return false
	}

	if event.Important {
		return true
	}

	return p.roll() < p.chance
}
