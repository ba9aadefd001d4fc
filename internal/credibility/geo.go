package credibility

import (
	"strings"

	"github.com/knakagawa/citylens/internal/model"
)

// isUrban reports whether the address hint mentions a known major city.
// Non-urban areas have sparser official data coverage, which the analyzer
// models as a reliability penalty.
func isUrban(addressHint string, geo model.GeoConfig) bool {
	hint := strings.ToLower(addressHint)
	for _, city := range geo.MajorCities {
		if strings.Contains(hint, strings.ToLower(city)) {
			return true
		}
	}
	return false
}
