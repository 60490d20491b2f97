package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coolcat-ia/barkeep/pkg/core/achievements"
)

// AchievementVerifier is the slice of the verifier the endpoint needs.
type AchievementVerifier interface {
	Verify(ctx context.Context, req achievements.VerifyRequest) achievements.Result
}

// VerifyAchievementHandler handles POST /verify-achievement: the client
// uploads a photo URL and the verifier judges it against the
// achievement's criteria.
type VerifyAchievementHandler struct {
	Logger       *slog.Logger
	Verifier     AchievementVerifier
	MaxBodyBytes int64
}

type verifyAchievementRequest struct {
	UserID        string `json:"userId"`
	AchievementID string `json:"achievementId"`
	ImageURL      string `json:"imageUrl"`
}

func (h VerifyAchievementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if h.Verifier == nil {
		writeError(w, http.StatusServiceUnavailable, "El servicio de verificación no está configurado.")
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

	var req verifyAchievementRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "El cuerpo de la petición no es JSON válido.")
			return
		}
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId es requerido")
		return
	}
	if req.AchievementID == "" {
		writeError(w, http.StatusBadRequest, "achievementId es requerido")
		return
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "imageUrl es requerido")
		return
	}

	result := h.Verifier.Verify(r.Context(), achievements.VerifyRequest{
		UserID:        req.UserID,
		AchievementID: req.AchievementID,
		ImageURL:      req.ImageURL,
	})
	logger.Info("achievement verification",
		"user", req.UserID,
		"achievement", req.AchievementID,
		"approved", result.Verification.Approved)
	writeJSON(w, http.StatusOK, result)
}

// AchievementCriteriaHandler handles GET /achievement-criteria/{id},
// returning the verification criteria for one achievement so the
// frontend can show them. Unknown ids get the generic criteria.
type AchievementCriteriaHandler struct{}

type achievementCriteriaResponse struct {
	AchievementID string `json:"achievementId"`
	achievements.Criteria
}

func (AchievementCriteriaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/achievement-criteria/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, achievementCriteriaResponse{
		AchievementID: id,
		Criteria:      achievements.CriteriaFor(id),
	})
}

// AchievementsCriteriaHandler handles GET /achievements-criteria,
// listing the whole criteria table keyed by achievement id.
type AchievementsCriteriaHandler struct{}

func (AchievementsCriteriaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, achievements.AllCriteria())
}
