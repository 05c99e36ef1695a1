// Package orchestration drives the reactive dialogue pipeline: world events
// are logged, gated by the trigger policy, turned into spoken lines by the
// speech backend, voiced in an isolated attempt, and fed back into the log
// as utterance events.
package orchestration

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/ForgottenHistory/talker-core/core/characters"
	"github.com/ForgottenHistory/talker-core/core/eventlog"
	"github.com/ForgottenHistory/talker-core/core/eventlog/memory"
	"github.com/ForgottenHistory/talker-core/core/events"
	"github.com/ForgottenHistory/talker-core/core/settings"
	"github.com/ForgottenHistory/talker-core/core/speechgen"
	"go.opentelemetry.io/otel/attribute"
)

// contextWindowMillis is the length of the trailing context window handed to
// the speech backend, ending at the triggering event's timestamp.
const contextWindowMillis = 10_000

type Orchestrator struct {
	log    eventlog.Log
	policy triggerPolicy

	speech     SpeechBackend
	voiceSynth VoiceSynthesis
	directory  characters.Directory
	settings   settings.Provider

	presentation Presentation
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		log: memory.NewLog(),
	}
	o.policy = triggerPolicy{
		chance:             DefaultDialogueChance,
		roll:               rand.Float64,
		isPlayerControlled: o.isPlayerControlled,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// SetPresentation swaps the world-presentation collaborator. Hosts use it to
// rebind rendering; tests use it to install doubles.
func (o *Orchestrator) SetPresentation(presentation Presentation) {
	o.presentation = presentation
}

// OnEvent ingests one world event. The event is stored unconditionally; if
// the trigger policy passes, the trailing context window is submitted to the
// speech backend and control returns immediately. The returned error is the
// backend call's own: it aborts only this generation attempt.
func (o *Orchestrator) OnEvent(ctx context.Context, event events.WorldEvent) error {
	ctx, span := tracer.Start(ctx, "handle world event")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.kind", string(event.Kind())),
		attribute.Int64("event.timestamp", event.Timestamp()),
	)

	o.log.Store(event)

	if !o.policy.decide(event) {
		span.AddEvent("reaction suppressed")
		logger.DebugContext(ctx, "reaction suppressed", "event", event.ID())
		return nil
	}

	if o.speech == nil {
		return fmt.Errorf("speech backend not configured")
	}

	contextEvents := o.log.EventsSince(event.Timestamp() - contextWindowMillis)
	// Other in-flight reactions may have appended past the trigger between
	// the store and the fetch; the window ends at the trigger's timestamp.
	for len(contextEvents) > 0 && contextEvents[len(contextEvents)-1].Timestamp() > event.Timestamp() {
		contextEvents = contextEvents[:len(contextEvents)-1]
	}
	return o.speech.Generate(ctx, contextEvents,
		speechgen.WithLineCallback(func(speakerID, line string) {
			o.onGeneratedLine(ctx, speakerID, line)
		}),
		speechgen.WithErrorCallback(func(err error) {
			logger.WarnContext(ctx, "speech generation failed", "error", err)
		}),
	)
}

// onGeneratedLine is the generation continuation: display, voice attempt,
// feedback mint, in that order. The voice attempt runs inside an isolation
// boundary so nothing on that path can keep the utterance from being minted.
func (o *Orchestrator) onGeneratedLine(ctx context.Context, speakerID, line string) {
	ctx, span := tracer.Start(ctx, "handle generated line")
	defer span.End()
	span.SetAttributes(attribute.String("line.speaker", speakerID))

	presentation := o.presentation
	if presentation == nil {
		log.Println("Warning: no presentation configured, dropping generated line")
		return
	}

	presentation.Display(speakerID, line)

	if err := panicSafeNamed("voice attempt", func(ctx context.Context) error {
		o.SynthesizeVoice(ctx, speakerID, line, func(ok bool) {
			if !ok {
				logger.WarnContext(ctx, "line shown without voice", "speaker", speakerID)
			}
		})
		return nil
	})(ctx); err != nil {
		span.RecordError(err)
		logger.WarnContext(ctx, "voice attempt fault contained", "error", err)
	}

	utterance := presentation.MakeUtteranceEvent(speakerID, line)
	if err := o.OnEvent(ctx, utterance); err != nil {
		span.RecordError(err)
		log.Printf("Failed to re-submit utterance event: %v", err)
	}
}

func (o *Orchestrator) isPlayerControlled(entityID string) bool {
	if o.presentation == nil {
		return false
	}
	return o.presentation.IsPlayerControlled(entityID)
}
