package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/chat"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
	"github.com/coolcat-ia/barkeep/pkg/core/voice/tts"
	"github.com/coolcat-ia/barkeep/pkg/gateway/live/protocol"
	"github.com/coolcat-ia/barkeep/pkg/gateway/mw"
)

// ChatResponder is the slice of the responder the chat endpoint needs.
type ChatResponder interface {
	Reply(ctx context.Context, req *chat.ReplyRequest) (string, error)
	Model() string
}

// CharacterSource resolves and lists localized personas.
type CharacterSource interface {
	Get(id, language string) (characters.Character, bool)
	List(language string) []characters.Character
}

// ChatHandler handles POST /chat text turns, optionally streaming the
// synthesized reply as audio.
type ChatHandler struct {
	Logger       *slog.Logger
	Characters   CharacterSource
	Responder    ChatResponder
	Synthesizer  tts.Synthesizer
	MaxBodyBytes int64
}

type chatRequest struct {
	CharacterID  string            `json:"characterId"`
	Message      string            `json:"message"`
	History      []chat.Turn       `json:"history"`
	ReturnAudio  bool              `json:"returnAudio"`
	Language     string            `json:"language"`
	UserLocation *geo.UserLocation `json:"userLocation"`
}

type chatResponse struct {
	CharacterID   string `json:"characterId"`
	CharacterName string `json:"characterName"`
	Reply         string `json:"reply"`
	Language      string `json:"language"`
	UsedModel     string `json:"usedModel"`
	AudioError    string `json:"audioError,omitempty"`
}

func (h ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	maxBody := h.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No se pudo leer el cuerpo de la petición.")
		return
	}

	var req chatRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "El cuerpo de la petición no es JSON válido.")
			return
		}
	}

	if req.CharacterID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Los campos characterId y message son obligatorios.")
		return
	}

	language := req.Language
	if language == "" {
		language = protocol.DefaultLanguage
	}
	if _, ok := protocol.SupportedLanguages[language]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Idioma no soportado. Idiomas disponibles: %s", strings.Join(protocol.LanguageList(), ", ")))
		return
	}

	persona, ok := h.Characters.Get(req.CharacterID, language)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Personaje con id %q no encontrado.", req.CharacterID))
		return
	}

	reqID, _ := mw.RequestIDFrom(r.Context())
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reply, err := h.Responder.Reply(r.Context(), &chat.ReplyRequest{
		Character:    persona,
		Message:      req.Message,
		History:      req.History,
		Language:     language,
		UserLocation: req.UserLocation,
	})
	if err != nil {
		logger.Error("chat reply failed", "request_id", reqID, "character_id", persona.ID, "error", err)
		status, message := replyErrorStatus(err)
		writeJSON(w, status, errorResponse{Error: message, Details: err.Error()})
		return
	}

	resp := chatResponse{
		CharacterID:   persona.ID,
		CharacterName: persona.Name,
		Reply:         reply,
		Language:      language,
		UsedModel:     h.Responder.Model(),
	}

	if req.ReturnAudio && h.Synthesizer != nil {
		audio, synthErr := h.Synthesizer.Synthesize(r.Context(), reply, tts.VoiceParams{
			VoiceID:         persona.Voice.ElevenLabsVoiceID,
			Stability:       persona.Voice.Stability,
			SimilarityBoost: persona.Voice.SimilarityBoost,
			Style:           persona.Voice.Style,
		})
		if synthErr != nil {
			logger.Warn("audio synthesis failed", "request_id", reqID, "character_id", persona.ID, "error", synthErr)
			resp.AudioError = "No se pudo generar el audio, pero aquí está el texto."
			writeJSON(w, http.StatusOK, resp)
			return
		}
		defer audio.Close()

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("X-Reply-Text", headerEscape(reply))
		w.Header().Set("X-Character-Name", headerEscape(persona.Name))
		w.Header().Set("X-Language", language)
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, audio); err != nil {
			logger.Warn("audio stream interrupted", "request_id", reqID, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// replyErrorStatus separates server misconfiguration (a rejected Gemini
// credential) from upstream failures.
func replyErrorStatus(err error) (int, string) {
	var apiErr *gemini.Error
	if errors.As(err, &apiErr) {
		if apiErr.Type == gemini.ErrAuthentication || apiErr.Type == gemini.ErrPermission {
			return http.StatusInternalServerError, "El servidor no está configurado correctamente. Falta GEMINI_API_KEY."
		}
	}
	return http.StatusBadGateway, "No se pudo obtener respuesta del servicio de IA."
}
