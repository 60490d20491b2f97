// Package protocol defines the JSON control messages exchanged over a
// voice WebSocket session and their decoding rules. Binary frames carry
// raw audio and never pass through this codec.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coolcat-ia/barkeep/pkg/core/chat"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
)

// SupportedLanguages maps the reply language to its transcription code.
var SupportedLanguages = map[string]string{
	"es": "es-ES",
	"en": "en-US",
}

// Defaults applied when start omits the optional audio fields.
const (
	DefaultLanguage   = "es"
	DefaultSampleRate = 16000
	DefaultEncoding   = "LINEAR16"
)

// DecodeError is a protocol-level rejection. It is reported to the client
// as an error event and never tears the connection down.
type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badRequest(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_request", Message: message, Param: param}
}

func unsupported(message, param string) *DecodeError {
	return &DecodeError{Code: "unsupported", Message: message, Param: param}
}

// ClientStart selects the persona and negotiates the session.
type ClientStart struct {
	Type            string            `json:"type"`
	PersonaID       string            `json:"personaId"`
	History         []chat.Turn       `json:"history,omitempty"`
	Language        string            `json:"language,omitempty"`
	LanguageCode    string            `json:"languageCode,omitempty"`
	SampleRateHertz int               `json:"sampleRateHertz,omitempty"`
	Encoding        string            `json:"encoding,omitempty"`
	ReturnAudio     *bool             `json:"returnAudio,omitempty"`
	UserLocation    *geo.UserLocation `json:"userLocation,omitempty"`
}

// ClientCommit ends the current utterance so final results flush.
type ClientCommit struct {
	Type string `json:"type"`
}

// ClientConfigUpdate mutates the return-audio flag; nothing else is
// mutable mid-session.
type ClientConfigUpdate struct {
	Type        string `json:"type"`
	ReturnAudio *bool  `json:"returnAudio,omitempty"`
}

// ClientStop ends the session cleanly.
type ClientStop struct {
	Type string `json:"type"`
}

// ClientPing requests a pong.
type ClientPing struct {
	Type string `json:"type"`
}

// DecodeClientMessage parses one inbound text frame into its typed
// message. Unknown types and malformed JSON come back as *DecodeError.
func DecodeClientMessage(data []byte) (any, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, badRequest("invalid json frame", "")
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, badRequest("missing type", "type")
	}

	switch typ {
	case "start":
		var msg ClientStart
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badRequest("invalid start frame", "")
		}
		if err := ValidateStart(msg); err != nil {
			return nil, err
		}
		return msg, nil
	case "commit":
		return ClientCommit{Type: typ}, nil
	case "config_update":
		var msg ClientConfigUpdate
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badRequest("invalid config_update frame", "")
		}
		return msg, nil
	case "stop":
		return ClientStop{Type: typ}, nil
	case "ping":
		return ClientPing{Type: typ}, nil
	default:
		return nil, unsupported("unsupported message type", "type")
	}
}

// ValidateStart checks the required fields and the language set.
func ValidateStart(msg ClientStart) error {
	if strings.TrimSpace(msg.PersonaID) == "" {
		return badRequest("start.personaId is required", "personaId")
	}
	if msg.Language != "" {
		if _, ok := SupportedLanguages[msg.Language]; !ok {
			return unsupported(
				fmt.Sprintf("unsupported language %q, supported: %s", msg.Language, strings.Join(LanguageList(), ", ")),
				"language")
		}
	}
	if msg.SampleRateHertz < 0 {
		return badRequest("start.sampleRateHertz must be positive", "sampleRateHertz")
	}
	return nil
}

// LanguageList returns the supported reply languages in stable order.
func LanguageList() []string {
	return []string{"es", "en"}
}

// Server events.

type ServerHello struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ServerReady struct {
	Type            string `json:"type"`
	PersonaID       string `json:"personaId"`
	Language        string `json:"language"`
	LanguageCode    string `json:"languageCode"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	Encoding        string `json:"encoding"`
}

type ServerTranscript struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ServerThinking struct {
	Type string `json:"type"`
}

type ServerReplyText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ServerReplyAudioStart struct {
	Type   string `json:"type"`
	Format string `json:"format"`
}

type ServerReplyAudioEnd struct {
	Type string `json:"type"`
}

type ServerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ServerEnded struct {
	Type string `json:"type"`
}

type ServerPong struct {
	Type string `json:"type"`
}
