package orchestration

import (
	"context"

	"github.com/ForgottenHistory/talker-core/core/characters"
	"github.com/ForgottenHistory/talker-core/core/eventlog"
	"github.com/ForgottenHistory/talker-core/core/events"
	"github.com/ForgottenHistory/talker-core/core/settings"
	"github.com/ForgottenHistory/talker-core/core/speechgen"
	"github.com/ForgottenHistory/talker-core/core/voicesynth"
)

type OrchestratorOption func(*Orchestrator)

// SpeechBackend asynchronously turns a window of context events into one
// spoken line, delivered through the line callback. The returned error
// covers only the synchronous part of the call.
type SpeechBackend interface {
	Generate(ctx context.Context, contextEvents []events.WorldEvent, opts ...speechgen.GenerationOption) error
}

func WithSpeechBackend(client SpeechBackend) OrchestratorOption {
	return func(o *Orchestrator) { o.speech = client }
}

// VoiceSynthesis submits one synthesis request; the backend performs
// playback itself and only acknowledges.
type VoiceSynthesis interface {
	Speak(ctx context.Context, request voicesynth.Request) (voicesynth.Outcome, error)
}

func WithVoiceSynthesisClient(client VoiceSynthesis) OrchestratorOption {
	return func(o *Orchestrator) { o.voiceSynth = client }
}

// Presentation renders spoken lines in the host world, answers
// player-control queries and mints the feedback events.
type Presentation interface {
	Display(speakerID, line string)
	MakeUtteranceEvent(speakerID, line string) events.WorldEvent
	IsPlayerControlled(entityID string) bool
}

func WithPresentation(presentation Presentation) OrchestratorOption {
	return func(o *Orchestrator) { o.SetPresentation(presentation) }
}

func WithEventLog(log eventlog.Log) OrchestratorOption {
	return func(o *Orchestrator) { o.log = log }
}

func WithCharacterDirectory(directory characters.Directory) OrchestratorOption {
	return func(o *Orchestrator) { o.directory = directory }
}

func WithSettingsProvider(provider settings.Provider) OrchestratorOption {
	return func(o *Orchestrator) { o.settings = provider }
}

// WithDialogueChance overrides the trigger probability for routine events.
func WithDialogueChance(chance float64) OrchestratorOption {
	return func(o *Orchestrator) { o.policy.chance = chance }
}

// WithRandomSource replaces the policy's uniform draw, mainly for tests.
func WithRandomSource(roll func() float64) OrchestratorOption {
	return func(o *Orchestrator) { o.policy.roll = roll }
}
