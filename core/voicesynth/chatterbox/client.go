// Package chatterbox is the HTTP client for the Chatterbox TTS service. The
// service clones faction voices, applies radio effects and plays the result
// on its own audio device, so a successful call returns only the "playing"
// acknowledgement.
package chatterbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ForgottenHistory/talker-core/core/voicesynth"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("chatterbox server url not provided")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}, nil
}

// Speak submits one synthesis request and decodes the acknowledgement. A
// transport or HTTP-level fault returns an error; a 200 response always
// yields an outcome, recognized or not, with the raw payload retained.
func (c *Client) Speak(ctx context.Context, request voicesynth.Request) (voicesynth.Outcome, error) {
	ctx, span := tracer.Start(ctx, "speak line")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.faction", request.CharacterInfo.Faction),
		attribute.Int("request.volume", request.Volume),
	)

	requestBodyBytes, err := json.Marshal(request)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return voicesynth.Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tts", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return voicesynth.Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return voicesynth.Outcome{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		return voicesynth.Outcome{}, err
	}

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		span.SetAttributes(attribute.String("response.error", string(body)))
		err = fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return voicesynth.Outcome{}, err
	}

	outcome := voicesynth.Outcome{Raw: body}
	var payload struct {
		Status        string   `json:"status"`
		Text          string   `json:"text"`
		AppliedVolume *float64 `json:"applied_volume"`
	}
	// A malformed body is not a transport fault: the caller decides based on
	// the (absent) success marker and logs the raw payload.
	if err := json.Unmarshal(body, &payload); err == nil {
		outcome.Status = payload.Status
		outcome.Text = payload.Text
		outcome.AppliedVolume = payload.AppliedVolume
	}

	if !outcome.Playing() {
		logger.WarnContext(ctx, "synthesis not acknowledged", "payload", string(body))
	}
	return outcome, nil
}

// HealthReport mirrors the service's /health payload.
type HealthReport struct {
	Status          string `json:"status"`
	Available       bool   `json:"available"`
	TTSProvider     string `json:"tts_provider"`
	VoicesAvailable int    `json:"voices_available"`
}

// Health probes the service, reporting whether its TTS engine is loaded.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("error creating HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthReport{}, fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("error unmarshalling health report: %w", err)
	}
	return report, nil
}
