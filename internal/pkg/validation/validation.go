package validation

import (
	"math"
	"regexp"
)

// Project ids are short opaque tokens: letters, digits, hyphens, underscores.
var projectIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func IsValidProjectID(id string) bool {
	return projectIDRe.MatchString(id)
}

// IsValidLatitude accepts degrees in [-90, 90].
func IsValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// IsValidLongitude accepts degrees in [-180, 180].
func IsValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= -180 && lon <= 180
}

// IsValidRadius accepts a finite, strictly positive sphere radius.
func IsValidRadius(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}
