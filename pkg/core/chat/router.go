package chat

import (
	"context"
	"strings"

	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
)

// Intent is the coarse routing decision for a user message.
type Intent string

const (
	IntentSearch   Intent = "SEARCH"
	IntentInternal Intent = "INTERNAL"
)

const routerInstruction = `You are a router. Analyze the user message and output only ONE word:
- SEARCH: If the user asks for real-time news, weather, sports scores, general world facts not related to the bar, or explicitly asks to search the web.
- INTERNAL: If the user asks about beers, menu, prices, bar events, store locations, characters of the story, greetings, or roleplay.`

// classifyIntent makes one lightweight model call. Any failure maps to
// INTERNAL: losing the router must never block the persona path.
func (r *Responder) classifyIntent(ctx context.Context, message string) Intent {
	resp, err := r.deps.Generator.GenerateContent(ctx, &gemini.Request{
		Model:             r.cfg.RouterModel,
		SystemInstruction: routerInstruction,
		Contents:          []gemini.Content{gemini.TextContent("user", message)},
	})
	if err != nil {
		r.deps.Logger.Warn("intent router failed", "error", err)
		return IntentInternal
	}
	if strings.Contains(strings.ToUpper(resp.Text), "SEARCH") {
		return IntentSearch
	}
	return IntentInternal
}
