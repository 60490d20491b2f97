package achievements

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
)

type fakeGenerator struct {
	text     string
	err      error
	requests []*gemini.Request
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, req *gemini.Request) (*gemini.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &gemini.Response{Text: f.text}, nil
}

func imageServer(t *testing.T, status int, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		} else {
			// Suppress the sniffed default so the fallback kicks in.
			w.Header()["Content-Type"] = nil
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestVerifier(t *testing.T, gen Generator) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{}, Dependencies{Generator: gen})
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func TestVerifyApproved(t *testing.T) {
	img := imageServer(t, http.StatusOK, "image/png", []byte("png-bytes"))
	gen := &fakeGenerator{text: "```json\n" + `{
		"approved": true,
		"confidence": 0.92,
		"detectedBeer": "guajira",
		"criteriaResults": [{"criterion": "cerveza visible", "met": true, "reason": "se ve la etiqueta"}],
		"summary": "Cerveza Guajira detectada",
		"feedback": "¡Bien hecho!"
	}` + "\n```"}
	v := newTestVerifier(t, gen)

	result := v.Verify(context.Background(), VerifyRequest{
		UserID:        "u1",
		AchievementID: "l1_gourmet_cat",
		ImageURL:      img.URL + "/foto.png",
	})
	if !result.Success || result.Error != "" {
		t.Fatalf("result = %+v", result)
	}
	ver := result.Verification
	if !ver.Approved || ver.Confidence != 0.92 {
		t.Fatalf("verification = %+v", ver)
	}
	if ver.DetectedBeer == nil || *ver.DetectedBeer != "guajira" {
		t.Fatalf("detectedBeer = %v", ver.DetectedBeer)
	}
	if ver.AchievementID != "l1_gourmet_cat" || ver.UserID != "u1" {
		t.Fatalf("identity = %+v", ver)
	}
	if len(ver.CriteriaResults) != 1 || !ver.CriteriaResults[0].Met {
		t.Fatalf("criteriaResults = %+v", ver.CriteriaResults)
	}
	if ver.VerifiedAt.IsZero() {
		t.Fatalf("verifiedAt not set")
	}

	if len(gen.requests) != 1 {
		t.Fatalf("generator calls = %d", len(gen.requests))
	}
	req := gen.requests[0]
	if req.Model != DefaultModel {
		t.Fatalf("model = %q", req.Model)
	}
	parts := req.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil {
		t.Fatalf("parts = %+v", parts)
	}
	if parts[0].InlineData.MIMEType != "image/png" {
		t.Fatalf("mime type = %q", parts[0].InlineData.MIMEType)
	}
	if parts[0].InlineData.Data != base64.StdEncoding.EncodeToString([]byte("png-bytes")) {
		t.Fatalf("image data = %q", parts[0].InlineData.Data)
	}
	prompt := parts[1].Text
	if !strings.Contains(prompt, "Gourmet Cat") {
		t.Fatalf("prompt missing achievement name:\n%s", prompt)
	}
	if !strings.Contains(prompt, "debe cumplir al menos 2") {
		t.Fatalf("prompt missing required matches:\n%s", prompt)
	}
	if !strings.Contains(prompt, "2. La imagen debe mostrar comida") {
		t.Fatalf("prompt missing numbered criteria:\n%s", prompt)
	}
}

func TestVerifyUnknownAchievementUsesGenericCriteria(t *testing.T) {
	img := imageServer(t, http.StatusOK, "", []byte("jpg"))
	gen := &fakeGenerator{text: `{"approved": false, "confidence": 0.3, "detectedBeer": null, "summary": "s", "feedback": "f"}`}
	v := newTestVerifier(t, gen)

	result := v.Verify(context.Background(), VerifyRequest{
		UserID:        "u1",
		AchievementID: "logro_inventado",
		ImageURL:      img.URL,
	})
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.Verification.Approved {
		t.Fatalf("expected rejection")
	}
	if result.Verification.DetectedBeer != nil {
		t.Fatalf("detectedBeer = %v", result.Verification.DetectedBeer)
	}
	// Missing Content-Type falls back to JPEG.
	if got := gen.requests[0].Contents[0].Parts[0].InlineData.MIMEType; got != "image/jpeg" {
		t.Fatalf("mime type = %q", got)
	}
	if !strings.Contains(gen.requests[0].Contents[0].Parts[1].Text, "Logro Genérico") {
		t.Fatalf("prompt should use the generic criteria")
	}
}

func TestVerifyImageDownloadFailure(t *testing.T) {
	img := imageServer(t, http.StatusNotFound, "", nil)
	gen := &fakeGenerator{}
	v := newTestVerifier(t, gen)

	result := v.Verify(context.Background(), VerifyRequest{
		UserID:        "u1",
		AchievementID: "l1_iniciado_cervecero",
		ImageURL:      img.URL,
	})
	if result.Success || result.Error == "" {
		t.Fatalf("result = %+v", result)
	}
	if result.Verification.Approved || result.Verification.Confidence != 0 {
		t.Fatalf("verification = %+v", result.Verification)
	}
	if result.Verification.Summary != "Error durante la verificación" {
		t.Fatalf("summary = %q", result.Verification.Summary)
	}
	if result.Verification.Feedback != "Hubo un problema al verificar tu foto. Por favor, intenta de nuevo." {
		t.Fatalf("feedback = %q", result.Verification.Feedback)
	}
	if len(gen.requests) != 0 {
		t.Fatalf("model should not be called without an image")
	}
}

func TestVerifyModelFailure(t *testing.T) {
	img := imageServer(t, http.StatusOK, "image/jpeg", []byte("jpg"))
	gen := &fakeGenerator{err: fmt.Errorf("model offline")}
	v := newTestVerifier(t, gen)

	result := v.Verify(context.Background(), VerifyRequest{
		UserID:        "u1",
		AchievementID: "l1_iniciado_cervecero",
		ImageURL:      img.URL,
	})
	if result.Success {
		t.Fatalf("result = %+v", result)
	}
	if !strings.Contains(result.Error, "model offline") {
		t.Fatalf("error = %q", result.Error)
	}
}

func TestVerifyUnparseableVerdict(t *testing.T) {
	img := imageServer(t, http.StatusOK, "image/jpeg", []byte("jpg"))
	gen := &fakeGenerator{text: "lo siento, no puedo analizar esta imagen"}
	v := newTestVerifier(t, gen)

	result := v.Verify(context.Background(), VerifyRequest{
		UserID:        "u1",
		AchievementID: "l1_iniciado_cervecero",
		ImageURL:      img.URL,
	})
	if result.Success || result.Error == "" {
		t.Fatalf("result = %+v", result)
	}
}

func TestCriteriaFor(t *testing.T) {
	c := CriteriaFor("l1_triada_perfecta")
	if c.Name != "La Tríada Perfecta" || c.RequiredMatches != 3 {
		t.Fatalf("criteria = %+v", c)
	}
	if len(c.Criteria) != 3 {
		t.Fatalf("criteria lines = %d", len(c.Criteria))
	}

	generic := CriteriaFor("no_existe")
	if generic.Name != "Logro Genérico" || generic.RequiredMatches != 1 {
		t.Fatalf("generic = %+v", generic)
	}
}

func TestAllCriteriaIsACopy(t *testing.T) {
	all := AllCriteria()
	if len(all) != 12 {
		t.Fatalf("criteria table size = %d", len(all))
	}
	if _, ok := all["l1_explorador_estilos"]; !ok {
		t.Fatalf("missing l1_explorador_estilos")
	}
	if !all["l1_explorador_estilos"].MultiPhoto {
		t.Fatalf("l1_explorador_estilos should be multi-photo")
	}
	delete(all, "l1_explorador_estilos")
	if _, ok := AllCriteria()["l1_explorador_estilos"]; !ok {
		t.Fatalf("table mutated through the returned map")
	}
}
