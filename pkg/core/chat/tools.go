package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coolcat-ia/barkeep/pkg/core/characters"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
	"github.com/coolcat-ia/barkeep/pkg/core/providers/gemini"
)

// Tool names the model may request. The dispatcher is exhaustive over this
// set; anything else ends the loop.
const (
	toolSearchProducts   = "searchProducts"
	toolGetFullMenu      = "getFullMenu"
	toolSearchEvents     = "searchEvents"
	toolSearchStores     = "searchStores"
	toolGetCharacterInfo = "getCharacterInfo"
)

type toolText struct {
	searchProducts      string
	searchProductsQuery string
	getFullMenu         string
	searchEvents        string
	searchEventsQuery   string
	searchStores        string
	searchStoresLoc     string
	getCharacterInfo    string
	getCharacterName    string
}

var toolTexts = map[string]toolText{
	"es": {
		searchProducts:      "Busca cervezas o productos en el catálogo por nombre, tipo o descripción. Úsala cuando el usuario pregunte por una cerveza específica o precios.",
		searchProductsQuery: "El término de búsqueda (ej: 'rubia', 'Candela', 'IPA').",
		getFullMenu:         "Obtiene el menú completo de cervezas disponibles. Úsala cuando el usuario pregunte 'qué tienes' o quiera ver la carta.",
		searchEvents:        "Busca eventos, conciertos o fiestas próximas en el Universo Cool Cat. Úsala si preguntan 'qué hay para hacer', 'cuándo es la fiesta', etc.",
		searchEventsQuery:   "Tipo de evento o fecha aproximada (opcional).",
		searchStores:        "Busca dónde comprar cerveza o bares cercanos. CAPACIDADES: 1) Si el usuario menciona un BARRIO o ZONA (ej: 'San Blas', 'Centro', 'Playa San Juan'), pasa ese nombre como 'location' - el sistema lo geocodificará automáticamente. 2) Si dice 'cerca de mí' o 'por aquí', deja location vacío y usará GPS. 3) Cada local tiene CATEGORÍA (Pub, Bar, Restaurante, Supermercado) con REGLAS. SUPERMERCADOS son SOLO para comprar (NO BEBER AHÍ).",
		searchStoresLoc:     "Nombre del barrio, zona o ciudad (ej: 'San Blas', 'Centro', 'Benalúa', 'Alicante'). El sistema puede identificar barrios y convertirlos a coordenadas. Dejar VACÍO solo si el usuario dice 'cerca de mí' o 'por aquí' sin especificar zona.",
		getCharacterInfo:    "Obtiene información sobre otros personajes del universo. Úsala si el usuario pregunta 'quién es Buck', 'háblame de La Catira', etc.",
		getCharacterName:    "Nombre del personaje a buscar.",
	},
	"en": {
		searchProducts:      "Search for beers or products in the catalog by name, type or description. Use it when the user asks about a specific beer or prices.",
		searchProductsQuery: "The search term (e.g., 'blonde', 'Candela', 'IPA').",
		getFullMenu:         "Gets the complete menu of available beers. Use it when the user asks 'what do you have' or wants to see the menu.",
		searchEvents:        "Search for upcoming events, concerts or parties in the Cool Cat Universe. Use it if they ask 'what's happening', 'when is the party', etc.",
		searchEventsQuery:   "Type of event or approximate date (optional).",
		searchStores:        "Search for nearby beer shops or bars. CAPABILITIES: 1) If user mentions a NEIGHBORHOOD or ZONE (e.g., 'San Blas', 'Downtown', 'Beach area'), pass that name as 'location' - the system will geocode it automatically. 2) If they say 'near me' or 'around here', leave location empty to use GPS. 3) Each place has a CATEGORY (Pub, Bar, Restaurant, Supermarket) with RULES. SUPERMARKETS are for BUYING ONLY (NO DRINKING).",
		searchStoresLoc:     "Name of neighborhood, zone or city (e.g., 'San Blas', 'Downtown', 'Benalúa', 'Alicante'). The system can identify neighborhoods and convert them to coordinates. Leave EMPTY only if user says 'near me' without specifying a zone.",
		getCharacterInfo:    "Gets information about other characters in the universe. Use it if the user asks 'who is Buck', 'tell me about La Catira', etc.",
		getCharacterName:    "Name of the character to search for.",
	},
}

func stringParam(name, description string, required bool) json.RawMessage {
	schema := map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			name: map[string]any{"type": "STRING", "description": description},
		},
		"required": []string{},
	}
	if required {
		schema["required"] = []string{name}
	}
	raw, _ := json.Marshal(schema)
	return raw
}

var emptyParams = json.RawMessage(`{"type":"OBJECT","properties":{},"required":[]}`)

// declaredTools builds the catalog tool set with descriptions in the reply
// language.
func declaredTools(language string) []gemini.Tool {
	txt, ok := toolTexts[language]
	if !ok {
		txt = toolTexts["es"]
	}
	return []gemini.Tool{{
		FunctionDeclarations: []gemini.FunctionDeclaration{
			{
				Name:        toolSearchProducts,
				Description: txt.searchProducts,
				Parameters:  stringParam("query", txt.searchProductsQuery, true),
			},
			{
				Name:        toolGetFullMenu,
				Description: txt.getFullMenu,
				Parameters:  emptyParams,
			},
			{
				Name:        toolSearchEvents,
				Description: txt.searchEvents,
				Parameters:  stringParam("query", txt.searchEventsQuery, false),
			},
			{
				Name:        toolSearchStores,
				Description: txt.searchStores,
				Parameters:  stringParam("location", txt.searchStoresLoc, false),
			},
			{
				Name:        toolGetCharacterInfo,
				Description: txt.getCharacterInfo,
				Parameters:  stringParam("name", txt.getCharacterName, true),
			},
		},
	}}
}

type characterInfo struct {
	Name        string `json:"name"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Style       string `json:"style,omitempty"`
	Product     string `json:"product,omitempty"`
}

// dispatchTool resolves one model-requested call. known is false for a tool
// name outside the declared set; the caller breaks the loop rather than
// erroring.
func (r *Responder) dispatchTool(ctx context.Context, call gemini.FunctionCall, user *geo.UserLocation) (result any, known bool, err error) {
	var args struct {
		Query    string `json:"query"`
		Location string `json:"location"`
		Name     string `json:"name"`
	}
	if len(call.Args) > 0 {
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return nil, true, fmt.Errorf("decode args: %w", err)
		}
	}

	switch call.Name {
	case toolSearchProducts:
		r.deps.Logger.Info("tool call", "tool", call.Name, "query", args.Query)
		result, err = r.deps.Catalog.SearchProducts(ctx, args.Query)
		return result, true, err
	case toolGetFullMenu:
		r.deps.Logger.Info("tool call", "tool", call.Name)
		result, err = r.deps.Catalog.FullMenu(ctx)
		return result, true, err
	case toolSearchEvents:
		r.deps.Logger.Info("tool call", "tool", call.Name, "query", args.Query)
		result, err = r.deps.Catalog.SearchEvents(ctx, args.Query)
		return result, true, err
	case toolSearchStores:
		r.deps.Logger.Info("tool call", "tool", call.Name, "location", args.Location)
		result, err = r.deps.Stores.Search(ctx, args.Location, user)
		return result, true, err
	case toolGetCharacterInfo:
		r.deps.Logger.Info("tool call", "tool", call.Name, "name", args.Name)
		return r.characterInfo(args.Name), true, nil
	default:
		return nil, false, nil
	}
}

// characterInfo returns a bare roster for an empty name, otherwise matching
// personas with tone and a catalog pointer for the associated beer. Results
// stay in the source language; the model localizes them in the reply.
func (r *Responder) characterInfo(name string) []characterInfo {
	matches := r.deps.Characters.Search(name, characters.DefaultLanguage)
	out := make([]characterInfo, 0, len(matches))
	for _, c := range matches {
		if name == "" {
			out = append(out, characterInfo{Name: c.Name, Summary: c.Summary})
			continue
		}
		out = append(out, characterInfo{
			Name:        c.Name,
			Description: c.Summary,
			Style:       c.Tone,
			Product:     "Ver catálogo de cervezas para su producto asociado",
		})
	}
	return out
}
