// Package model holds the shared data structures of the chat pipeline:
// the closed intent enumeration, the filter set extracted from free text,
// and the uniform result envelope returned by every query builder.
package model

// IntentKind is the classified purpose of a user question. It selects
// which query builder runs. Using a defined type and constants prevents
// typos and lets the dispatcher switch exhaustively.
type IntentKind string

const (
	IntentPricePrediction IntentKind = "price_prediction"
	IntentSearchFlats     IntentKind = "search_flats"
	IntentTownStats       IntentKind = "town_stats"
	IntentCheapestOptions IntentKind = "cheapest_options"
	IntentMostExpensive   IntentKind = "most_expensive"
	IntentPopularTowns    IntentKind = "popular_towns"
	IntentPriceTrend      IntentKind = "price_trend"
	IntentCompareTowns    IntentKind = "compare_towns"
	IntentGeneral         IntentKind = "general"
)

// Valid reports whether k is one of the nine known intents. Unknown
// model output is not auto-corrected; the dispatcher surfaces it as an
// "Unknown intent" envelope instead of guessing.
func (k IntentKind) Valid() bool {
	switch k {
	case IntentPricePrediction, IntentSearchFlats, IntentTownStats,
		IntentCheapestOptions, IntentMostExpensive, IntentPopularTowns,
		IntentPriceTrend, IntentCompareTowns, IntentGeneral:
		return true
	}
	return false
}

// FilterSet is the structured parameters extracted from free text.
// Every field is optional; a nil pointer is the explicit "absent"
// sentinel. The JSON tags match the shape the model is prompted to
// return, so a parsed response unmarshals directly into this struct.
type FilterSet struct {
	Town           *string `json:"town"`
	Town2          *string `json:"town2"`
	FlatType       *string `json:"flat_type"`
	MinPrice       *int    `json:"min_price"`
	MaxPrice       *int    `json:"max_price"`
	Year           *int    `json:"year"`
	StartYear      *int    `json:"start_year"`
	EndYear        *int    `json:"end_year"`
	PredictionYear *int    `json:"prediction_year"`
	Limit          *int    `json:"limit"`
}

// ParsedIntent is the resolver's output: one intent plus the merged
// filter set. It is produced fresh per request and only ever logged,
// never persisted as an entity.
type ParsedIntent struct {
	Intent  IntentKind `json:"intent"`
	Filters FilterSet  `json:"filters"`
}

// Helpers for building filter sets in overlay logic and tests.

func String(s string) *string { return &s }
func Int(n int) *int          { return &n }
