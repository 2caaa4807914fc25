package features

import (
	"context"
	"fmt"
	"time"

	"MatchCast/internal/domain/models"
	xhttp "MatchCast/pkg/http"
)

// NeutralFactorSource always returns the defined neutral defaults. Used when
// no live factor feed is configured.
type NeutralFactorSource struct{}

func (NeutralFactorSource) Factors(context.Context, models.MatchContext) (models.ExternalFactors, error) {
	return models.NeutralFactors(), nil
}

// HTTPFactorSource fetches external factors from an auxiliary JSON service.
// These remain low-confidence placeholder inputs: the response is tagged so a
// real feed can be swapped in without touching the pipeline shape.
type HTTPFactorSource struct {
	baseURL string
	client  *xhttp.Client
}

func NewHTTPFactorSource(baseURL string, timeout time.Duration) *HTTPFactorSource {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPFactorSource{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type factorsResp struct {
	WeatherSeverity   float64 `json:"weather_severity"`
	CrowdFactor       float64 `json:"crowd_factor"`
	RefereeHomeBias   float64 `json:"referee_home_bias"`
	HomeMotivation    float64 `json:"home_motivation"`
	AwayMotivation    float64 `json:"away_motivation"`
	HomeMissingKeyPct float64 `json:"home_missing_key_pct"`
	AwayMissingKeyPct float64 `json:"away_missing_key_pct"`
}

func (s *HTTPFactorSource) Factors(ctx context.Context, mc models.MatchContext) (models.ExternalFactors, error) {
	if s.client == nil || s.baseURL == "" {
		return models.ExternalFactors{}, fmt.Errorf("factor source not configured")
	}
	var fr factorsResp
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.baseURL + "/factors",
		QueryParams: map[string][]string{
			"home":   {mc.HomeID},
			"away":   {mc.AwayID},
			"league": {mc.League},
		},
	}, &fr)
	if err != nil {
		return models.ExternalFactors{}, fmt.Errorf("get factors: %w", err)
	}
	return models.ExternalFactors{
		WeatherSeverity:   fr.WeatherSeverity,
		CrowdFactor:       fr.CrowdFactor,
		RefereeHomeBias:   fr.RefereeHomeBias,
		HomeMotivation:    fr.HomeMotivation,
		AwayMotivation:    fr.AwayMotivation,
		HomeMissingKeyPct: fr.HomeMissingKeyPct,
		AwayMissingKeyPct: fr.AwayMissingKeyPct,
		// Live feed or not, these signals stay tagged as placeholders until
		// a calibrated provider replaces this source.
		Placeholder: true,
	}, nil
}
