package achievements

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
)

// DefaultModel is the vision-capable model used for photo verification.
const DefaultModel = "gemini-2.0-flash"

// maxImageBytes caps how much of a photo is downloaded before it is
// sent to the model.
const maxImageBytes = 10 << 20

// nowFn is swapped in tests to pin verification timestamps.
var nowFn = time.Now

// Generator is the slice of the Gemini client the verifier needs.
type Generator interface {
	GenerateContent(ctx context.Context, req *gemini.Request) (*gemini.Response, error)
}

// Config holds the verifier settings.
type Config struct {
	Model string
}

// Dependencies are the capabilities the verifier uses.
type Dependencies struct {
	Generator  Generator
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Verifier judges achievement photos.
type Verifier struct {
	cfg  Config
	deps Dependencies
}

// NewVerifier validates dependencies and applies defaults.
func NewVerifier(cfg Config, deps Dependencies) (*Verifier, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("achievements: generator is required")
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Verifier{cfg: cfg, deps: deps}, nil
}

// VerifyRequest identifies one photo to judge.
type VerifyRequest struct {
	UserID        string
	AchievementID string
	ImageURL      string
}

// CriterionResult is the model's verdict on one criterion.
type CriterionResult struct {
	Criterion string `json:"criterion"`
	Met       bool   `json:"met"`
	Reason    string `json:"reason"`
}

// Verification is the full verdict on one photo.
type Verification struct {
	AchievementID   string            `json:"achievementId"`
	UserID          string            `json:"userId"`
	ImageURL        string            `json:"imageUrl"`
	Approved        bool              `json:"approved"`
	Confidence      float64           `json:"confidence"`
	DetectedBeer    *string           `json:"detectedBeer"`
	CriteriaResults []CriterionResult `json:"criteriaResults,omitempty"`
	Summary         string            `json:"summary"`
	Feedback        string            `json:"feedback"`
	VerifiedAt      time.Time         `json:"verifiedAt"`
}

// Result is what the verification endpoint returns.
type Result struct {
	Success      bool         `json:"success"`
	Error        string       `json:"error,omitempty"`
	Verification Verification `json:"verification"`
}

// Verify downloads the photo, asks the vision model to judge it against
// the achievement's criteria, and returns the verdict. Failures along
// the way fold into a rejected verification so the client always gets a
// well-formed result.
func (v *Verifier) Verify(ctx context.Context, req VerifyRequest) Result {
	verification, err := v.analyze(ctx, req)
	if err != nil {
		v.deps.Logger.Error("achievement verification failed",
			"achievement", req.AchievementID,
			"user", req.UserID,
			"error", err)
		return Result{
			Error: err.Error(),
			Verification: Verification{
				AchievementID: req.AchievementID,
				UserID:        req.UserID,
				ImageURL:      req.ImageURL,
				Summary:       "Error durante la verificación",
				Feedback:      "Hubo un problema al verificar tu foto. Por favor, intenta de nuevo.",
				VerifiedAt:    nowFn().UTC(),
			},
		}
	}
	return Result{Success: true, Verification: verification}
}

func (v *Verifier) analyze(ctx context.Context, req VerifyRequest) (Verification, error) {
	mimeType, imageB64, err := v.fetchImage(ctx, req.ImageURL)
	if err != nil {
		return Verification{}, err
	}

	crit := CriteriaFor(req.AchievementID)
	resp, err := v.deps.Generator.GenerateContent(ctx, &gemini.Request{
		Model: v.cfg.Model,
		Contents: []gemini.Content{{
			Role: "user",
			Parts: []gemini.Part{
				{InlineData: &gemini.Blob{MIMEType: mimeType, Data: imageB64}},
				{Text: verificationPrompt(crit)},
			},
		}},
	})
	if err != nil {
		return Verification{}, fmt.Errorf("achievements: analyze image: %w", err)
	}

	verdict, err := parseVerdict(resp.Text)
	if err != nil {
		return Verification{}, err
	}
	return Verification{
		AchievementID:   req.AchievementID,
		UserID:          req.UserID,
		ImageURL:        req.ImageURL,
		Approved:        verdict.Approved,
		Confidence:      verdict.Confidence,
		DetectedBeer:    verdict.DetectedBeer,
		CriteriaResults: verdict.CriteriaResults,
		Summary:         verdict.Summary,
		Feedback:        verdict.Feedback,
		VerifiedAt:      nowFn().UTC(),
	}, nil
}

func (v *Verifier) fetchImage(ctx context.Context, imageURL string) (mimeType, dataB64 string, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("achievements: build image request: %w", err)
	}
	resp, err := v.deps.HTTPClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("achievements: download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("achievements: no se pudo descargar la imagen: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", "", fmt.Errorf("achievements: read image: %w", err)
	}

	mimeType = resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return mimeType, base64.StdEncoding.EncodeToString(data), nil
}

type modelVerdict struct {
	Approved        bool              `json:"approved"`
	Confidence      float64           `json:"confidence"`
	DetectedBeer    *string           `json:"detectedBeer"`
	CriteriaResults []CriterionResult `json:"criteriaResults"`
	Summary         string            `json:"summary"`
	Feedback        string            `json:"feedback"`
}

// parseVerdict extracts the verdict object from the model's reply. The
// model is told to answer in JSON but tends to wrap it in markdown
// fences, so the outermost braces delimit what gets parsed.
func parseVerdict(text string) (modelVerdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return modelVerdict{}, fmt.Errorf("achievements: no JSON verdict in model reply")
	}
	var verdict modelVerdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &verdict); err != nil {
		return modelVerdict{}, fmt.Errorf("achievements: parse model verdict: %w", err)
	}
	return verdict, nil
}

func verificationPrompt(crit Criteria) string {
	numbered := make([]string, len(crit.Criteria))
	for i, c := range crit.Criteria {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, c)
	}
	return fmt.Sprintf(`Eres un sistema de verificación de logros AMIGABLE para una aplicación de cerveza artesanal "Mr. Cool Cat".

IMPORTANTE - LISTA DE CERVEZAS DE LA MARCA (detecta cuál aparece en la imagen):
- "guajira" o "la guajira" = Tropical IPA (etiqueta con mujer tropical/caribeña)
- "catira" o "la catira" = Blonde Ale (etiqueta con mujer rubia/surfista)
- "morena" o "la morena" = Brown Ale/Porter (etiqueta con mujer morena)
- "sifrina" o "la sifrina" = Blonde Ale Gluten Free (etiqueta elegante/chic)
- "candela" = Imperial Stout (etiqueta con fuego/llamas)
- "medusa" = Sin Alcohol 0,0 (etiqueta con medusa/tentáculos)

Si ves CUALQUIERA de estos nombres en una etiqueta o botella, ES UNA CERVEZA COOL CAT VÁLIDA.

LOGRO A VERIFICAR: %q
DESCRIPCIÓN: %s

CRITERIOS DE VERIFICACIÓN (debe cumplir al menos %d):
%s

INSTRUCCIONES:
1. Analiza la imagen proporcionada
2. IDENTIFICA QUÉ CERVEZA ESPECÍFICA aparece (guajira, catira, morena, sifrina, candela, medusa)
3. Sé PERMISIVO y GENEROSO - si ves una cerveza que parece ser Cool Cat, APRUEBA
4. En caso de duda, da el beneficio de la duda al usuario
5. Solo rechaza si la imagen NO muestra ninguna cerveza, o si claramente es otra marca

RESPONDE EXACTAMENTE EN ESTE FORMATO JSON:
{
  "approved": true/false,
  "confidence": 0.0-1.0,
  "detectedBeer": "nombre de la cerveza detectada en minúsculas (guajira/catira/morena/sifrina/candela/medusa) o null si no se puede identificar",
  "criteriaResults": [
    {"criterion": "descripción del criterio", "met": true/false, "reason": "razón"}
  ],
  "summary": "Resumen breve de la verificación",
  "feedback": "Mensaje amigable para el usuario explicando el resultado (en español)"
}`, crit.Name, crit.Description, crit.RequiredMatches, strings.Join(numbered, "\n"))
}
