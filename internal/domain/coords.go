package domain

import (
	"strconv"
	"strings"
)

// ExtractCoordinates parses a metadata location field into a coordinate pair.
// The field arrives either as a whitespace-separated string ("-24.5 -65.3")
// or as a JSON array of numbers; components beyond the first two are ignored.
// Any missing, short, or non-numeric input yields (zero, false) — a parse
// failure always degrades to "no coordinates", never to a partial guess.
func ExtractCoordinates(v any) (Coordinates, bool) {
	switch t := v.(type) {
	case string:
		parts := strings.Fields(t)
		if len(parts) < 2 {
			return Coordinates{}, false
		}
		return parsePair(parts[0], parts[1])
	case []any:
		if len(t) < 2 {
			return Coordinates{}, false
		}
		return parsePair(stringify(t[0]), stringify(t[1]))
	default:
		return Coordinates{}, false
	}
}

func parsePair(latRaw, lonRaw string) (Coordinates, bool) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if errLat != nil || errLon != nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lon: lon}, true
}
