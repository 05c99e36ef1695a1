package orchestration

import (
	"context"
	"fmt"

	"github.com/ForgottenHistory/talker-core/core/characters"
	"github.com/ForgottenHistory/talker-core/core/settings"
	"github.com/ForgottenHistory/talker-core/core/voicesynth"
	"go.opentelemetry.io/otel/attribute"
)

// SynthesizeVoice resolves settings and character fallback and dispatches
// one synthesis request. The call returns as soon as the request is in
// flight; onDone fires exactly once with the outcome. When the voice path is
// disabled in settings, onDone(false) fires synchronously and no network
// activity happens.
func (o *Orchestrator) SynthesizeVoice(ctx context.Context, speakerID, line string, onDone func(ok bool)) {
	ctx, span := tracer.Start(ctx, "synthesize voice")
	defer span.End()
	span.SetAttributes(attribute.String("line.speaker", speakerID))

	if onDone == nil {
		onDone = func(bool) {}
	}

	if !settings.VoiceEnabled(o.settings) {
		span.AddEvent("voice disabled in settings")
		onDone(false)
		return
	}

	if o.voiceSynth == nil {
		logger.WarnContext(ctx, "no voice synthesis client configured")
		onDone(false)
		return
	}

	profile := o.resolveSpeakerProfile(ctx, speakerID)
	request := voicesynth.Request{
		Text: line,
		CharacterInfo: voicesynth.CharacterInfo{
			Name:        profile.Name,
			Faction:     profile.Faction,
			Personality: profile.Personality,
		},
		Volume: settings.VoiceVolume(o.settings),
	}

	go func() {
		ok := false
		if err := panicSafeNamed("voice dispatch", func(ctx context.Context) error {
			outcome, err := o.voiceSynth.Speak(ctx, request)
			if err != nil {
				logger.WarnContext(ctx, "voice synthesis dispatch failed", "error", err)
				return nil
			}

			if !outcome.Playing() {
				logger.WarnContext(ctx, "voice synthesis not acknowledged", "payload", string(outcome.Raw))
				return nil
			}

			if outcome.AppliedVolume != nil {
				logger.DebugContext(ctx, "voice playing", "applied_volume", *outcome.AppliedVolume)
			}
			ok = true
			return nil
		})(ctx); err != nil {
			logger.WarnContext(ctx, "voice dispatch fault contained", "error", err)
		}
		onDone(ok)
	}()
}

// resolveSpeakerProfile always yields a fully-populated profile. Directory
// faults, panics included, collapse into the synthetic fallback.
func (o *Orchestrator) resolveSpeakerProfile(ctx context.Context, speakerID string) characters.Profile {
	if o.directory == nil {
		return characters.Fallback(speakerID)
	}

	supplied, err := func() (profile characters.Profile, err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("character lookup panicked: %v", recovered)
			}
		}()
		return o.directory.Lookup(ctx, speakerID)
	}()
	if err != nil {
		logger.WarnContext(ctx, "character lookup failed, using fallback profile",
			"speaker", speakerID, "error", err)
		return characters.Fallback(speakerID)
	}

	return characters.Resolve(speakerID, &supplied)
}
