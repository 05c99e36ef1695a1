package chatterbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ForgottenHistory/talker-core/core/voicesynth"
)

func TestNewClientRequiresServerURL(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected error for missing server url")
	}
}

func TestSpeakRecognizesPlayingAcknowledgement(t *testing.T) {
	var received voicesynth.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts" {
			t.Errorf("expected POST /tts, got %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"playing","text":"Get out of here, stalker","applied_volume":60}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	outcome, err := client.Speak(context.Background(), voicesynth.Request{
		Text: "Get out of here, stalker",
		CharacterInfo: voicesynth.CharacterInfo{
			Name:        "Sidorovich",
			Faction:     "stalker",
			Personality: "greedy",
		},
		Volume: 60,
	})
	if err != nil {
		t.Fatalf("expected speak to succeed, got %v", err)
	}

	if !outcome.Playing() {
		t.Fatalf("expected playing acknowledgement, got status %q", outcome.Status)
	}
	if outcome.AppliedVolume == nil || *outcome.AppliedVolume != 60 {
		t.Fatalf("expected applied volume 60, got %v", outcome.AppliedVolume)
	}
	if received.Volume != 60 || received.CharacterInfo.Faction != "stalker" {
		t.Fatalf("expected request to carry volume and character info, got %+v", received)
	}
}

func TestSpeakTreatsUnrecognizedPayloadsAsFailure(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "error status", body: `{"status":"error"}`},
		{name: "empty object", body: `{}`},
		{name: "not json", body: `playback started`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(testCase.body))
			}))
			defer server.Close()

			client, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("expected client to be created, got %v", err)
			}

			outcome, err := client.Speak(context.Background(), voicesynth.Request{Text: "hello"})
			if err != nil {
				t.Fatalf("expected a decoded outcome rather than an error, got %v", err)
			}
			if outcome.Playing() {
				t.Fatalf("expected failure outcome for payload %q", testCase.body)
			}
			if string(outcome.Raw) != testCase.body {
				t.Fatalf("expected raw payload to be retained for logging, got %q", outcome.Raw)
			}
		})
	}
}

func TestSpeakReturnsErrorOnHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"TTS generation failed"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	if _, err := client.Speak(context.Background(), voicesynth.Request{Text: "hello"}); err == nil {
		t.Fatalf("expected error for non-OK status")
	}
}

func TestSpeakReturnsErrorWhenServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	if _, err := client.Speak(context.Background(), voicesynth.Request{Text: "hello"}); err == nil {
		t.Fatalf("expected transport error for closed server")
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected GET /health, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"running","available":true,"tts_provider":"chatterbox","voices_available":12}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	report, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("expected health probe to succeed, got %v", err)
	}
	if !report.Available || report.TTSProvider != "chatterbox" {
		t.Fatalf("expected available chatterbox provider, got %+v", report)
	}
}
