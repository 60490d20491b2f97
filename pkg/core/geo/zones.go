package geo

import "strings"

// Zone is a canonical area/city pair for a colloquial neighborhood name.
type Zone struct {
	Area string
	City string
}

// knownZones maps colloquial zone names, as users actually say them, to a
// canonical "area, city" pair that geocodes reliably. Keys are normalized
// (lowercase, accent-stripped).
var knownZones = map[string]Zone{
	"san blas":             {"San Blas", "Alicante"},
	"benalua":              {"Benalúa", "Alicante"},
	"plaza san cristobal":  {"Plaza San Cristóbal", "Alicante"},
	"el barrio":            {"Casco Antiguo", "Alicante"},
	"casco antiguo":        {"Casco Antiguo", "Alicante"},
	"centro":               {"Centro", "Alicante"},
	"playa san juan":       {"Playa de San Juan", "Alicante"},
	"san juan":             {"Playa de San Juan", "Alicante"},
	"la albufereta":        {"Albufereta", "Alicante"},
	"albufereta":           {"Albufereta", "Alicante"},
	"carolinas":            {"Carolinas Bajas", "Alicante"},
	"florida":              {"Florida", "Alicante"},
	"san gabriel":          {"San Gabriel", "Alicante"},
	"cabo de las huertas":  {"Cabo de las Huertas", "Alicante"},
	"explanada":            {"Explanada de España", "Alicante"},
	"puerto":               {"Puerto de Alicante", "Alicante"},
	"san vicente":          {"San Vicente del Raspeig", "Alicante"},
	"el campello":          {"El Campello", "Alicante"},
	"playa del postiguet":  {"Playa del Postiguet", "Alicante"},
	"postiguet":            {"Playa del Postiguet", "Alicante"},
}

// DetectZone finds a known zone mentioned anywhere in text. When several
// keys are contained in the input the longest one wins, so "plaza san
// cristobal" is not pre-empted by a shorter key it happens to contain.
func DetectZone(text string) (Zone, bool) {
	needle := Normalize(text)
	var best string
	for key := range knownZones {
		if strings.Contains(needle, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return Zone{}, false
	}
	return knownZones[best], true
}

// Query returns the geocodable "area, city" string for the zone.
func (z Zone) Query() string {
	return z.Area + ", " + z.City
}
