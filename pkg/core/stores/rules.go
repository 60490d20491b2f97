package stores

import "strings"

// Rules describes what a visitor can and cannot do at a venue, derived from
// its category.
type Rules struct {
	AllowedActions []string `json:"allowed_actions"`
	Restrictions   string   `json:"restrictions"`
}

// CategoryRules maps a raw category string to its usage rules. Matching is
// deliberately fuzzy: rows carry free-form categories like "Pub irlandés"
// or "Cafe Bar".
func CategoryRules(category string) Rules {
	if category == "" {
		return Rules{AllowedActions: []string{}, Restrictions: "Sin información de categoría"}
	}

	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "bar" {
		normalized = "cafes / bars"
	}

	switch {
	case strings.Contains(normalized, "supermercado"), strings.Contains(normalized, "supermarket"):
		return Rules{
			AllowedActions: []string{"comprar para llevar", "abastecimiento"},
			Restrictions:   "ESTRICTAMENTE PROHIBIDO consumir en el local. Solo venta.",
		}
	case strings.Contains(normalized, "restaurant"):
		return Rules{
			AllowedActions: []string{"comer", "cenar", "beber", "celebraciones"},
			Restrictions:   "Se recomienda reservar.",
		}
	case strings.Contains(normalized, "pub"):
		return Rules{
			AllowedActions: []string{"socializar", "beber", "música", "fiesta"},
			Restrictions:   "Solo para mayores de 18.",
		}
	case strings.Contains(normalized, "cafe"), strings.Contains(normalized, "café"), strings.Contains(normalized, "bar"):
		return Rules{
			AllowedActions: []string{"café", "beber", "tapas", "conversar"},
			Restrictions:   "Ambiente más relajado.",
		}
	}

	return Rules{
		AllowedActions: []string{"visitar"},
		Restrictions:   "Consultar en el local.",
	}
}
