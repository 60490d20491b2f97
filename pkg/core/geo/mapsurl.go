package geo

import (
	"regexp"
	"strconv"
)

// Older store rows encode their position only inside a shared Google Maps
// link. Each pattern captures lat then lng.
var mapsURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`),
	regexp.MustCompile(`[?&]q=(-?\d+\.\d+),(-?\d+\.\d+)`),
	regexp.MustCompile(`!3d(-?\d+\.\d+)!4d(-?\d+\.\d+)`),
	regexp.MustCompile(`/(-?\d+\.\d+),(-?\d+\.\d+)(?:,|$|/)`),
}

// ParseMapsURL recovers a coordinate pair from a legacy map link. It tries
// the known URL shapes in order of reliability and reports false when none
// match.
func ParseMapsURL(url string) (Point, bool) {
	for _, re := range mapsURLPatterns {
		m := re.FindStringSubmatch(url)
		if m == nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}
		return Point{Lat: lat, Lng: lng}, true
	}
	return Point{}, false
}
