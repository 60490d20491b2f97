// Package chat drives one persona conversation turn: intent routing, the
// persona system prompt, and the tool-resolution loop against the catalog,
// the store locator and the character directory.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coolcat-ia/barkeep/pkg/core/catalog"
	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
	"github.com/coolcat-ia/barkeep/pkg/core/stores"
)

// Defaults for the model pair.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultRouterModel = "gemini-2.0-flash-lite-preview-02-05"

	// maxToolCalls bounds the resolution loop for one turn.
	maxToolCalls = 6
)

// Turn is one prior conversation entry. Role is "user" or "model".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator is the slice of the Gemini client the responder needs.
type Generator interface {
	GenerateContent(ctx context.Context, req *gemini.Request) (*gemini.Response, error)
}

// Catalog provides the filtered catalog reads.
type Catalog interface {
	SearchProducts(ctx context.Context, query string) ([]catalog.Product, error)
	FullMenu(ctx context.Context) ([]catalog.MenuItem, error)
	SearchEvents(ctx context.Context, query string) ([]catalog.Event, error)
}

// StoreSearcher resolves store-locator queries.
type StoreSearcher interface {
	Search(ctx context.Context, locationText string, user *geo.UserLocation) ([]stores.Result, error)
}

// CharacterSource looks up personas for the character-info tool.
type CharacterSource interface {
	Search(name, language string) []characters.Character
}

// Config holds the responder settings.
type Config struct {
	Model       string
	RouterModel string
}

// Dependencies are the capabilities the responder orchestrates.
type Dependencies struct {
	Generator  Generator
	Catalog    Catalog
	Stores     StoreSearcher
	Characters CharacterSource
	Logger     *slog.Logger
}

// Responder produces persona replies.
type Responder struct {
	cfg  Config
	deps Dependencies
}

// NewResponder validates dependencies and applies model defaults.
func NewResponder(cfg Config, deps Dependencies) (*Responder, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("chat: generator is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("chat: catalog is required")
	}
	if deps.Stores == nil {
		return nil, fmt.Errorf("chat: store searcher is required")
	}
	if deps.Characters == nil {
		return nil, fmt.Errorf("chat: character source is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.RouterModel == "" {
		cfg.RouterModel = DefaultRouterModel
	}
	return &Responder{cfg: cfg, deps: deps}, nil
}

// Model returns the reply model identifier, for response metadata.
func (r *Responder) Model() string {
	return r.cfg.Model
}

// ReplyRequest is one conversation turn to resolve.
type ReplyRequest struct {
	Character    characters.Character
	Message      string
	History      []Turn
	Language     string
	UserLocation *geo.UserLocation
}

// Reply runs the full pipeline for one turn: route the intent, send the
// persona-framed conversation, resolve tool calls, and return the final
// text. An empty final text is a hard error.
func (r *Responder) Reply(ctx context.Context, req *ReplyRequest) (string, error) {
	language := req.Language
	if language == "" {
		language = characters.DefaultLanguage
	}

	intent := r.classifyIntent(ctx, req.Message)
	r.deps.Logger.Debug("intent classified", "intent", intent)

	var tools []gemini.Tool
	if intent == IntentSearch {
		tools = []gemini.Tool{{GoogleSearch: &gemini.GoogleSearch{}}}
	} else {
		tools = declaredTools(language)
	}

	contents := historyContents(req.History)
	contents = append(contents, gemini.TextContent("user", annotateLocation(req.Message, req.UserLocation, language)))

	greq := &gemini.Request{
		Model:             r.cfg.Model,
		SystemInstruction: systemInstruction(req.Character, language, nowFn()),
		Contents:          contents,
		Tools:             tools,
	}

	resp, err := r.deps.Generator.GenerateContent(ctx, greq)
	if err != nil {
		return "", fmt.Errorf("chat: generate reply: %w", err)
	}

	if intent == IntentInternal {
		for calls := 0; resp.HasFunctionCalls() && calls < maxToolCalls; calls++ {
			// Only the first pending call is resolved per model turn.
			call := resp.FunctionCalls[0]
			result, known, err := r.dispatchTool(ctx, call, req.UserLocation)
			if !known {
				r.deps.Logger.Warn("model requested unknown tool", "tool", call.Name)
				break
			}
			if err != nil {
				return "", fmt.Errorf("chat: tool %s: %w", call.Name, err)
			}

			greq.Contents = append(greq.Contents,
				gemini.Content{Role: "model", Parts: []gemini.Part{{FunctionCall: &call}}},
				gemini.FunctionResponseContent(call.Name, map[string]any{"result": result}),
			)
			resp, err = r.deps.Generator.GenerateContent(ctx, greq)
			if err != nil {
				return "", fmt.Errorf("chat: generate reply after tool %s: %w", call.Name, err)
			}
		}
	}

	if resp.Text == "" {
		return "", fmt.Errorf("chat: empty model response")
	}
	return resp.Text, nil
}

func historyContents(history []Turn) []gemini.Content {
	out := make([]gemini.Content, 0, len(history)+1)
	for _, t := range history {
		if t.Content == "" {
			continue
		}
		role := "user"
		if t.Role == "model" {
			role = "model"
		}
		out = append(out, gemini.TextContent(role, t.Content))
	}
	return out
}

// annotateLocation appends a machine-readable position note so the model
// can decide to call the store locator with GPS context.
func annotateLocation(message string, loc *geo.UserLocation, language string) string {
	if loc == nil {
		return message
	}
	if language == "en" {
		return message + fmt.Sprintf("\n[System context: the user's current position is latitude %v, longitude %v. Use it if they ask about nearby stores.]",
			loc.Latitude, loc.Longitude)
	}
	return message + fmt.Sprintf("\n[Contexto del Sistema: La ubicación actual del usuario es: Latitud %v, Longitud %v. Usa esta información si pregunta por tiendas cercanas.]",
		loc.Latitude, loc.Longitude)
}
