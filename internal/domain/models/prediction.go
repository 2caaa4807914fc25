package models

import "time"

// Outcome is one of the three possible match results.
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

// Probabilities is an outcome distribution. A valid triple sums to 1.0
// within 1e-9 with every component in [0,1].
type Probabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Of returns the mass assigned to the given outcome.
func (p Probabilities) Of(o Outcome) float64 {
	switch o {
	case OutcomeHomeWin:
		return p.HomeWin
	case OutcomeAwayWin:
		return p.AwayWin
	default:
		return p.Draw
	}
}

// Best returns the outcome carrying the strictly largest mass. On exact
// ties the draw bucket takes precedence over home/away, and home over away.
// Encoding the policy here keeps every caller's tie-breaking identical
// instead of depending on comparison order.
func (p Probabilities) Best() (Outcome, float64) {
	best, v := OutcomeDraw, p.Draw
	if p.HomeWin > v {
		best, v = OutcomeHomeWin, p.HomeWin
	}
	if p.AwayWin > v {
		best, v = OutcomeAwayWin, p.AwayWin
	}
	return best, v
}

// StrategyEstimate is one strategy's view of a feature vector. Immutable,
// produced once per strategy per request.
type StrategyEstimate struct {
	Strategy      string        `json:"strategy"`
	Outcome       Outcome       `json:"outcome"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`
	// Degraded marks the neutral fallback produced when the strategy's own
	// computation faulted.
	Degraded bool `json:"degraded,omitempty"`
}

// FeatureImportance is one entry of the static transparency table.
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// EnsembleResult is the combined, calibrated outcome distribution with its
// explanation trail. This is the artifact returned to callers.
type EnsembleResult struct {
	Outcome       Outcome             `json:"outcome"`
	Probabilities Probabilities       `json:"probabilities"`
	Confidence    float64             `json:"confidence"`
	Importance    []FeatureImportance `json:"feature_importance"`
	Reasoning     []string            `json:"reasoning"`
	Estimates     []StrategyEstimate  `json:"estimates"`
	// Degraded is set when fewer than the full set of strategies contributed
	// genuine estimates.
	Degraded       bool `json:"degraded,omitempty"`
	StrategiesUsed int  `json:"strategies_used"`
}

// Prediction is the persisted/returned envelope: the ensemble result plus
// echoed match and team metadata and timing.
type Prediction struct {
	HomeID    string         `json:"home_id"`
	HomeName  string         `json:"home_name"`
	AwayID    string         `json:"away_id"`
	AwayName  string         `json:"away_name"`
	League    string         `json:"league"`
	KickOff   time.Time      `json:"kick_off"`
	Result    EnsembleResult `json:"result"`
	ElapsedMs int64          `json:"elapsed_ms"`
	CreatedAt time.Time      `json:"created_at"`
}

// BatchItem is one positional result of a batch prediction. Exactly one of
// Prediction or Error is set.
type BatchItem struct {
	Index      int         `json:"index"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Error      string      `json:"error,omitempty"`
}
