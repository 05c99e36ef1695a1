package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ForgottenHistory/talker-core/core/events"
	"github.com/ForgottenHistory/talker-core/core/speechgen"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestGenerateDeliversParsedLine(t *testing.T) {
	var requestBody schemaRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"speaker_id":"bandit_03","line":"Cheeki breeki!"}`}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	type generated struct{ speakerID, line string }
	lines := make(chan generated, 1)
	err = client.Generate(context.Background(),
		[]events.WorldEvent{events.NewObserved(1000, []string{"bandit_03"}, "gunfire to the north")},
		speechgen.WithLineCallback(func(speakerID, line string) {
			lines <- generated{speakerID: speakerID, line: line}
		}),
		speechgen.WithErrorCallback(func(err error) {
			t.Errorf("unexpected generation error: %v", err)
		}),
	)
	if err != nil {
		t.Fatalf("expected generate to dispatch, got %v", err)
	}

	select {
	case got := <-lines:
		if got.speakerID != "bandit_03" || got.line != "Cheeki breeki!" {
			t.Fatalf("expected parsed line, got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected line callback to fire")
	}

	if requestBody.ResponseFormat == nil || requestBody.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected a json_schema constrained request, got %+v", requestBody.ResponseFormat)
	}
	if len(requestBody.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(requestBody.Messages))
	}
	if !strings.Contains(requestBody.Messages[1].Content, "gunfire to the north") {
		t.Fatalf("expected context events in the prompt, got %q", requestBody.Messages[1].Content)
	}
}

func TestGenerateReportsBackendErrorsThroughCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	errs := make(chan error, 1)
	err = client.Generate(context.Background(),
		[]events.WorldEvent{events.NewObserved(1000, []string{"npc"}, "anomaly discharge")},
		speechgen.WithLineCallback(func(speakerID, line string) {
			t.Errorf("unexpected line callback: %s / %s", speakerID, line)
		}),
		speechgen.WithErrorCallback(func(err error) { errs <- err }),
	)
	if err != nil {
		t.Fatalf("expected generate to dispatch, got %v", err)
	}

	select {
	case <-errs:
	case <-time.After(time.Second):
		t.Fatalf("expected error callback to fire")
	}
}

func TestGenerateRejectsEmptyContext(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}

	if err := client.Generate(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty context window")
	}
}

func TestFormatContextMarksUtterances(t *testing.T) {
	formatted := formatContext([]events.WorldEvent{
		events.NewObserved(100, []string{"a", "b"}, "a dog howls"),
		events.NewUtterance(200, []string{"a"}, "a says: quiet night"),
	})

	if !strings.Contains(formatted, "[100] witnessed by a, b: a dog howls") {
		t.Fatalf("expected observed line in context, got %q", formatted)
	}
	if !strings.Contains(formatted, "[200] (spoken) a says: quiet night") {
		t.Fatalf("expected utterance marked as spoken, got %q", formatted)
	}
}
