package models

// Requests for the prediction HTTP endpoints. Defined in domain for
// consistency and reuse.

type PredictRequest struct {
	HomeID string `json:"home_id" validate:"required"`
	AwayID string `json:"away_id" validate:"required,nefield=HomeID"`
	League string `json:"league" default:"premier_league"`
	// MatchDate is RFC3339 or unix seconds; defaults to now when empty.
	MatchDate string `json:"match_date"`
	Venue     string `json:"venue"`
}

type PredictBatchRequest struct {
	Requests []PredictRequest `json:"requests" validate:"required,min=1,max=20,dive"`
}
