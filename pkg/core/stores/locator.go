// Package stores resolves venue searches for the store-locator tool. A
// search may come with free-text location, user GPS coordinates, both or
// neither; the locator walks a fixed chain of strategies and annotates
// every hit with distance and category usage rules.
package stores

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/coolcat-ia/barkeep/pkg/core/catalog"
	"github.com/coolcat-ia/barkeep/pkg/core/geo"
)

const (
	maxResults     = 5
	zoneRadiusKm   = 10
	directRadiusKm = 15
	gpsRadiusKm    = 100
)

// Source provides the raw store rows.
type Source interface {
	AllStores(ctx context.Context) ([]catalog.Store, error)
}

// Geocoder resolves free text to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (geo.Point, error)
}

// Result is a store annotated for the model: distance from the resolved
// reference point (when one exists) and category rules.
type Result struct {
	catalog.Store
	DistanceInfo *float64 `json:"distance_info,omitempty"`
	ZoneInfo     Rules    `json:"zone_info"`
}

// Locator runs the search resolution chain.
type Locator struct {
	source   Source
	geocoder Geocoder
	logger   *slog.Logger
}

// NewLocator creates a locator. The geocoder may be nil, in which case the
// geocoding strategies are skipped and only substring/GPS matching runs.
func NewLocator(source Source, geocoder Geocoder, logger *slog.Logger) (*Locator, error) {
	if source == nil {
		return nil, fmt.Errorf("stores: source is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{source: source, geocoder: geocoder, logger: logger}, nil
}

// Search resolves a store query. locationText is the free-text place the
// user mentioned (may be empty); user is the client's reported position
// (may be nil).
func (l *Locator) Search(ctx context.Context, locationText string, user *geo.UserLocation) ([]Result, error) {
	rows, err := l.source.AllStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("stores: load stores: %w", err)
	}

	var userPoint *geo.Point
	if user != nil {
		p := user.Point()
		userPoint = &p
	}

	if locationText != "" {
		return l.searchByText(ctx, rows, locationText, userPoint), nil
	}
	if userPoint != nil {
		return finish(proximity(rows, *userPoint, gpsRadiusKm)), nil
	}
	return finish(sample(rows)), nil
}

func (l *Locator) searchByText(ctx context.Context, rows []catalog.Store, text string, userPoint *geo.Point) []Result {
	// Fastest and most precise: plain substring match against the row's
	// own place fields.
	if matches := substringMatch(rows, text, userPoint); len(matches) > 0 {
		return finish(matches)
	}

	if l.geocoder != nil {
		if zone, ok := geo.DetectZone(text); ok {
			pt, err := l.geocoder.Geocode(ctx, zone.Query())
			if err == nil {
				if matches := proximity(rows, pt, zoneRadiusKm); len(matches) > 0 {
					return finish(matches)
				}
			} else if !errors.Is(err, geo.ErrNoResults) {
				l.logger.Warn("zone geocode failed", "zone", zone.Query(), "error", err)
			}
		}

		pt, err := l.geocoder.Geocode(ctx, text)
		if err == nil {
			if matches := proximity(rows, pt, directRadiusKm); len(matches) > 0 {
				return finish(matches)
			}
		} else if !errors.Is(err, geo.ErrNoResults) {
			l.logger.Warn("geocode failed", "query", text, "error", err)
		}
	}

	// Last resort: the substring pass again, so a later data change that
	// makes it match is still honored after geocoding dead-ends.
	return finish(substringMatch(rows, text, userPoint))
}

// substringMatch compares the query against the row's place fields,
// case-insensitive with accents stripped on both sides.
func substringMatch(rows []catalog.Store, text string, userPoint *geo.Point) []Result {
	needle := geo.Normalize(text)
	if needle == "" {
		return nil
	}
	var out []Result
	for _, s := range rows {
		haystack := geo.Normalize(strings.Join([]string{
			s.Name, s.Address, s.Neighborhood, s.District, s.Province, s.City,
		}, " "))
		if !strings.Contains(haystack, needle) {
			continue
		}
		r := Result{Store: s, ZoneInfo: CategoryRules(s.Category)}
		if userPoint != nil {
			if pt, ok := coordinates(s); ok {
				d := geo.Distance(*userPoint, pt)
				r.DistanceInfo = &d
			}
		}
		out = append(out, r)
	}
	return out
}

// proximity keeps rows whose coordinates fall within radiusKm of ref.
func proximity(rows []catalog.Store, ref geo.Point, radiusKm float64) []Result {
	var out []Result
	for _, s := range rows {
		pt, ok := coordinates(s)
		if !ok {
			continue
		}
		d := geo.Distance(ref, pt)
		if d > radiusKm {
			continue
		}
		dist := d
		out = append(out, Result{
			Store:        s,
			DistanceInfo: &dist,
			ZoneInfo:     CategoryRules(s.Category),
		})
	}
	return out
}

func sample(rows []catalog.Store) []Result {
	out := make([]Result, 0, maxResults)
	for _, s := range rows {
		if len(out) == maxResults {
			break
		}
		out = append(out, Result{Store: s, ZoneInfo: CategoryRules(s.Category)})
	}
	return out
}

// coordinates reads the row's position, preferring the dedicated columns
// and falling back to the legacy map link.
func coordinates(s catalog.Store) (geo.Point, bool) {
	if s.Latitude != nil && s.Longitude != nil {
		return geo.Point{Lat: *s.Latitude, Lng: *s.Longitude}, true
	}
	if s.MapsURL != "" {
		return geo.ParseMapsURL(s.MapsURL)
	}
	return geo.Point{}, false
}

// finish sorts by distance where known and caps the result count.
func finish(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		di, dj := results[i].DistanceInfo, results[j].DistanceInfo
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}
