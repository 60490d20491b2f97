// Package achievements judges user achievement photos with a
// vision-capable Gemini model against a per-achievement criteria table.
package achievements

import "strings"

// BrandBeers are the label names that identify a Cool Cat beer in a
// photo. Several entries are spelling variants of the same beer.
var BrandBeers = []string{
	"Guajira", "La Guajira", // Tropical IPA
	"La Catira", "Catira", // Blonde Ale
	"La Morena", "Morena", // Brown Ale / Porter
	"La Sifrina", "Sifrina", // Blonde Ale (sin gluten)
	"Candela",               // Imperial Stout
	"Medusa", "Medusa 0,0", // Sin alcohol
	"Mr. Cool Cat", "Cool Cat", "MrCoolCat",
}

// Criteria describes how one achievement photo is judged.
type Criteria struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Criteria        []string `json:"criteria"`
	RequiredMatches int      `json:"requiredMatches"`
	MultiPhoto      bool     `json:"isMultiPhoto,omitempty"`
}

var beerList = strings.Join(BrandBeers, ", ")

var criteriaByID = map[string]Criteria{
	"l1_iniciado_cervecero": {
		Name:        "Iniciado Cervecero",
		Description: "Verificar que la foto muestra una cerveza de la marca Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar una cerveza (lata, botella o vaso con cerveza)",
			"Debe ser visible alguno de estos nombres/marcas en la etiqueta o botella: " + beerList,
		},
		RequiredMatches: 1,
	},
	"l1_explorador_estilos": {
		Name:        "Explorador de Estilos",
		Description: "Verificar foto de cerveza Cool Cat (el usuario irá subiendo fotos de diferentes cervezas)",
		Criteria: []string{
			"La imagen debe mostrar al menos UNA cerveza Cool Cat (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
		MultiPhoto:      true,
	},
	"l1_mr_cat_cervecero": {
		Name:        "Mr. Cat Cervecero",
		Description: "Verificar foto de cerveza Cool Cat (el usuario irá subiendo fotos de las 6 cervezas)",
		Criteria: []string{
			"La imagen debe mostrar al menos UNA cerveza Cool Cat (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
		MultiPhoto:      true,
	},
	"l1_cool_cat_master": {
		Name:        "Cool Cat Master",
		Description: "Verificar foto de cerveza Cool Cat en un local",
		Criteria: []string{
			"La imagen debe mostrar al menos UNA cerveza Cool Cat (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
		MultiPhoto:      true,
	},
	"l1_maestro_lupulo": {
		Name:        "Maestro del Lúpulo",
		Description: "Verificar foto de cerveza Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar una cerveza Cool Cat claramente visible (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
	},
	"l2_fiestero_cool_cat": {
		Name:        "Fiestero Cool Cat",
		Description: "Verificar foto en evento o reunión con cerveza Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar personas o ambiente social/festivo",
			"Debe haber cervezas Cool Cat visibles (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
	},
	"l2_maestro_ceremonias": {
		Name:        "Maestro de Ceremonias",
		Description: "Verificar asistencia a eventos Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar un evento, fiesta o reunión social",
			"Debe haber elementos relacionados con Cool Cat (cervezas, carteles, decoración con nombres: " + beerList + ")",
		},
		RequiredMatches: 1,
	},
	"l2_celebrity_cat": {
		Name:        "Celebrity Cat",
		Description: "Verificar foto con amigos bebiendo Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar personas con cervezas",
			"Las cervezas deben ser de la marca Cool Cat (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
	},
	"l2_banda_gato": {
		Name:        "La Banda del Gato",
		Description: "Verificar foto grupal brindando con Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar varias personas (idealmente 5 o más)",
			"Las personas deben tener cervezas Cool Cat (nombres válidos: " + beerList + ")",
		},
		RequiredMatches: 1,
	},
	"l1_gourmet_cat": {
		Name:        "Gourmet Cat",
		Description: "Verificar que la foto muestra una cerveza Cool Cat acompañada de comida",
		Criteria: []string{
			"La imagen debe mostrar una cerveza Cool Cat (botella o lata) con alguno de estos nombres: " + beerList,
			"La imagen debe mostrar comida o un plato de comida junto a la cerveza",
		},
		RequiredMatches: 2,
	},
	"l2_alma_fiesta": {
		Name:        "Alma de la Fiesta",
		Description: "Verificar foto brindando con al menos un amigo",
		Criteria: []string{
			"La imagen debe mostrar al menos 2 personas O al menos 2 cervezas visibles",
			"Las cervezas deben ser de la marca Cool Cat (nombres válidos: " + beerList + ")",
			"La foto debe transmitir un ambiente social/de brindis",
		},
		RequiredMatches: 2,
	},
	"l1_triada_perfecta": {
		Name:        "La Tríada Perfecta",
		Description: "Verificar que la foto muestra 3 variedades distintas de cerveza Cool Cat",
		Criteria: []string{
			"La imagen debe mostrar exactamente 3 o más botellas/latas de cerveza en la misma foto",
			"Las cervezas deben ser de la marca Cool Cat (nombres válidos: " + beerList + ")",
			"Deben ser variedades DISTINTAS (por ejemplo: Guajira, Catira y Morena)",
		},
		RequiredMatches: 3,
	},
}

// DefaultCriteria judges achievements without a dedicated entry.
var DefaultCriteria = Criteria{
	Name:        "Logro Genérico",
	Description: "Verificar que la foto está relacionada con cerveza Cool Cat",
	Criteria: []string{
		"La imagen debe mostrar una cerveza de la marca Cool Cat (nombres válidos: " + beerList + ")",
	},
	RequiredMatches: 1,
}

// CriteriaFor returns the criteria for an achievement id, falling back
// to the generic entry for unknown ids.
func CriteriaFor(achievementID string) Criteria {
	if c, ok := criteriaByID[achievementID]; ok {
		return c
	}
	return DefaultCriteria
}

// AllCriteria returns the criteria table keyed by achievement id.
func AllCriteria() map[string]Criteria {
	out := make(map[string]Criteria, len(criteriaByID))
	for id, c := range criteriaByID {
		out[id] = c
	}
	return out
}
