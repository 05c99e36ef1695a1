// Package groq generates spoken reactions with a Groq-hosted LLM using a
// structured (JSON schema constrained) chat completion.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ForgottenHistory/talker-core/core/events"
	"github.com/ForgottenHistory/talker-core/core/speechgen"
	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultURL   = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel = "llama-3.3-70b-versatile"

	systemPrompt = "You write in-character radio chatter for stalkers in the Zone. " +
		"Given a log of recent world events, pick the most fitting witness of the " +
		"latest event as the speaker and write one short spoken line reacting to it. " +
		"Respond with JSON only."
)

// dialogueLine is the schema the model is constrained to.
type dialogueLine struct {
	SpeakerID string `json:"speaker_id"`
	Line      string `json:"line"`
}

type Client struct {
	apiKey string
	model  string
	url    string
}

type ClientOption func(*Client)

// WithModel overrides the default completion model.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithBaseURL points the client at a different completions endpoint, mainly
// for tests and self-hosted OpenAI-compatible servers.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.url = url }
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key not provided")
	}

	client := &Client{apiKey: apiKey, model: defaultModel, url: defaultURL}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Generate submits the context window for completion. The synchronous part
// only constructs the request; transport and model faults are reported
// through the error callback, and the line callback fires at most once.
func (c *Client) Generate(ctx context.Context, contextEvents []events.WorldEvent, opts ...speechgen.GenerationOption) error {
	options := speechgen.GenerationOptions{
		LineCallback:  func(string, string) {},
		ErrorCallback: func(error) {},
	}
	for _, opt := range opts {
		opt(&options)
	}

	if len(contextEvents) == 0 {
		return fmt.Errorf("no context events to react to")
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(dialogueLine{})

	reqBody := schemaRequestBody{
		Model: c.model,
		Messages: []message{
			{Role: messageRoleSystem, Content: systemPrompt},
			{Role: messageRoleUser, Content: formatContext(contextEvents)},
		},
		ResponseFormat: &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &responseJSONSchema{
				Name:   "dialogueLine",
				Schema: *schema,
				Strict: true,
			},
		},
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	go c.complete(ctx, requestBodyBytes, options)

	return nil
}

func (c *Client) complete(ctx context.Context, requestBodyBytes []byte, options speechgen.GenerationOptions) {
	ctx, span := tracer.Start(ctx, "generate dialogue line")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.model))

	fail := func(err error) {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		options.ErrorCallback(err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		fail(fmt.Errorf("error creating HTTP request: %w", err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	span.SetAttributes(attribute.String("request.url", req.URL.String()))
	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
			return operationName + " " + request.URL.Path
		}),
	)}
	resp, err := client.Do(req)
	if err != nil {
		fail(fmt.Errorf("error sending request: %w", err))
		return
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		fail(fmt.Errorf("non-OK HTTP status: %s", resp.Status))
		return
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		fail(fmt.Errorf("error reading response body: %w", err))
		return
	}

	var responseBody schemaResponseBody
	if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
		fail(fmt.Errorf("error unmarshalling response body: %w", err))
		return
	}
	if len(responseBody.Choices) == 0 {
		fail(fmt.Errorf("completion returned no choices"))
		return
	}

	content := responseBody.Choices[0].Message.Content
	if split := strings.Split(content, "```"); len(split) > 1 {
		content = split[1]
	}

	var line dialogueLine
	if err := json.Unmarshal([]byte(content), &line); err != nil {
		fail(fmt.Errorf("error unmarshalling dialogue line: %w", err))
		return
	}
	if line.SpeakerID == "" || line.Line == "" {
		fail(fmt.Errorf("completion produced an empty dialogue line"))
		return
	}

	logger.DebugContext(ctx, "dialogue line generated", "speaker", line.SpeakerID)
	options.LineCallback(line.SpeakerID, line.Line)
}

// formatContext renders the event window oldest-first, one event per line,
// so the model sees utterances interleaved with what provoked them.
func formatContext(contextEvents []events.WorldEvent) string {
	var b strings.Builder
	b.WriteString("Recent events, oldest first:\n")
	for _, event := range contextEvents {
		switch event.Kind() {
		case events.KindWorldUtterance:
			fmt.Fprintf(&b, "[%d] (spoken) %s\n", event.Timestamp(), event.Payload)
		default:
			fmt.Fprintf(&b, "[%d] witnessed by %s: %s\n", event.Timestamp(), strings.Join(event.Witnesses, ", "), event.Payload)
		}
	}
	return b.String()
}

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleSystem messageRole = "system"
	messageRoleUser   messageRole = "user"
)

type schemaRequestBody struct {
	Model          string              `json:"model"`
	Messages       []message           `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponseFormat struct {
	Type       string              `json:"type"`
	JSONSchema *responseJSONSchema `json:"json_schema,omitempty"`
}

type responseJSONSchema struct {
	Name   string            `json:"name"`
	Schema jsonschema.Schema `json:"schema"`
	Strict bool              `json:"strict"`
}

type schemaResponseBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
