package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/coolcat-ia/barkeep/pkg/notify"
)

// RegistrationMailer is the slice of the mailer the email endpoint needs.
type RegistrationMailer interface {
	SendRegistration(ctx context.Context, reg notify.Registration) (string, error)
}

// EmailHandler handles POST /api/send-registration-email. Mailer may be
// nil when the EMAIL_* variables are not configured.
type EmailHandler struct {
	Logger       *slog.Logger
	Mailer       RegistrationMailer
	MaxBodyBytes int64
}

type emailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h EmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if h.Mailer == nil {
		writeJSON(w, http.StatusServiceUnavailable, emailResponse{
			Success: false,
			Message: "El servicio de correo no está configurado.",
		})
		return
	}

	maxBody := h.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, emailResponse{Success: false, Message: "No se pudo leer el cuerpo de la petición."})
		return
	}

	var reg notify.Registration
	if len(body) > 0 {
		if err := json.Unmarshal(body, &reg); err != nil {
			writeJSON(w, http.StatusBadRequest, emailResponse{Success: false, Message: "El cuerpo de la petición no es JSON válido."})
			return
		}
	}
	if reg.Email == "" || reg.FirstName == "" || reg.LastName == "" {
		writeJSON(w, http.StatusBadRequest, emailResponse{
			Success: false,
			Message: "Faltan campos requeridos: first_name, last_name, email",
		})
		return
	}

	messageID, err := h.Mailer.SendRegistration(r.Context(), reg)
	if err != nil {
		logger.Error("registration email failed", "email", reg.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, emailResponse{
			Success: false,
			Message: "Error al enviar el email",
			Error:   err.Error(),
		})
		return
	}

	logger.Info("registration email sent", "email", reg.Email, "message_id", messageID)
	writeJSON(w, http.StatusOK, emailResponse{
		Success:   true,
		Message:   "Email enviado exitosamente",
		MessageID: messageID,
	})
}

// PushForwarder is the slice of the pusher the push endpoint needs.
type PushForwarder interface {
	Forward(ctx context.Context, payload []byte) (status int, body []byte, err error)
}

// PushHandler relays POST /api/send-push-notification to the Expo push
// service, passing the upstream status and body through untouched.
type PushHandler struct {
	Logger       *slog.Logger
	Pusher       PushForwarder
	MaxBodyBytes int64
}

func (h PushHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := h.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "No se pudo leer el cuerpo de la petición."})
		return
	}

	status, body, err := h.Pusher.Forward(r.Context(), payload)
	if err != nil {
		logger.Error("push relay failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
