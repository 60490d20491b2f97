// Package tts provides streaming speech synthesis through the ElevenLabs
// HTTP streaming endpoint. The caller reads MP3 bytes off the returned
// stream as they arrive.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Defaults for the ElevenLabs API.
const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModel   = "eleven_turbo_v2_5"

	// OutputFormat names the audio container the stream carries.
	OutputFormat = "mp3_44100"
)

// VoiceParams selects and shapes a synthesis voice.
type VoiceParams struct {
	VoiceID         string
	Stability       float64
	SimilarityBoost float64
	Style           float64
}

// Synthesizer turns text into a streamed audio body.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice VoiceParams) (io.ReadCloser, error)
}

// ElevenLabs implements Synthesizer over the HTTP streaming endpoint.
type ElevenLabs struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*ElevenLabs)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(e *ElevenLabs) { e.baseURL = u }
}

// WithModel overrides the synthesis model.
func WithModel(m string) Option {
	return func(e *ElevenLabs) { e.model = m }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *ElevenLabs) { e.httpClient = c }
}

// New creates an ElevenLabs client.
func New(apiKey string, opts ...Option) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tts: api key is required")
	}
	e := &ElevenLabs{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		// Synthesis of a long reply can take a while to finish
		// streaming; the timeout covers the whole body read.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type synthesisBody struct {
	ModelID       string        `json:"model_id"`
	Text          string        `json:"text"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

// Synthesize starts one streaming synthesis request. The returned body
// yields MP3 audio and must be closed by the caller.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, voice VoiceParams) (io.ReadCloser, error) {
	if voice.VoiceID == "" {
		return nil, fmt.Errorf("tts: voice id is required")
	}

	body, err := json.Marshal(synthesisBody{
		ModelID: e.model,
		Text:    text,
		VoiceSettings: voiceSettings{
			Stability:       voice.Stability,
			SimilarityBoost: voice.SimilarityBoost,
			Style:           voice.Style,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", e.baseURL, voice.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts: create request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: http request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("tts: elevenlabs error: %d - %s", resp.StatusCode, detail)
	}
	return resp.Body, nil
}
