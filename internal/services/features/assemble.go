package features

import (
	"math"

	"MatchCast/internal/domain/models"
)

// Assemble merges the four feature families into one immutable vector and
// validates that every numeric field is finite. The finiteness check is the
// engine's guard against upstream division bugs: a NaN or Inf anywhere is a
// ValidationError, never a silently propagated value.
func Assemble(home, away models.TeamFeatures, match models.MatchFeatures, h2h models.HeadToHeadFeatures, ext models.ExternalFactors) (*models.FeatureVector, error) {
	fv := &models.FeatureVector{
		Home:     home,
		Away:     away,
		Match:    match,
		H2H:      h2h,
		External: ext,
	}
	for _, f := range fv.Floats() {
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			return nil, models.Validationf("feature %q is not finite", f.Name)
		}
	}
	return fv, nil
}
