// Package geo provides the location primitives used by the store locator:
// great-circle distances, a curated table of colloquial zone names, legacy
// map-link coordinate recovery, and a thin geocoding client.
package geo

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in
// kilometers, using the haversine formula.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips combining accents, so "Benalúa"
// compares equal to "benalua".
func Normalize(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(accentStripper, lower)
	if err != nil {
		return lower
	}
	return out
}
