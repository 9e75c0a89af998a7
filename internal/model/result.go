package model

import "time"

// Flat is one resale transaction row as shaped by the search builders.
type Flat struct {
	TransactionID int       `db:"transaction_id" json:"transaction_id"`
	FlatID        int       `db:"flat_id" json:"flat_id"`
	ContractDate  time.Time `db:"contract_date" json:"contract_date"`
	ResalePrice   float64   `db:"resale_price" json:"resale_price"`
	FlatType      string    `db:"flat_type" json:"flat_type"`
	FloorAreaSqm  float64   `db:"floor_area_sqm" json:"floor_area_sqm"`
	Block         string    `db:"block" json:"block"`
	StreetName    string    `db:"street_name" json:"street_name"`
	Town          string    `db:"town" json:"town"`
	Year          int       `db:"year" json:"year"`
}

// TownStats is the single aggregate row returned by the town_stats builder.
type TownStats struct {
	Town              string  `db:"town" json:"town"`
	TotalTransactions int     `db:"total_transactions" json:"total_transactions"`
	AvgPrice          float64 `db:"avg_price" json:"avg_price"`
	MinPrice          float64 `db:"min_price" json:"min_price"`
	MaxPrice          float64 `db:"max_price" json:"max_price"`
	EarliestYear      int     `db:"earliest_year" json:"earliest_year"`
	LatestYear        int     `db:"latest_year" json:"latest_year"`
}

// TrendPoint is one yearly average in a price trend series.
type TrendPoint struct {
	Year           int     `db:"year" json:"year"`
	AvgResalePrice float64 `db:"avg_resale_price" json:"avg_resale_price"`
	Transactions   int     `db:"transactions" json:"transactions"`
	MinPrice       float64 `db:"min_price" json:"min_price"`
	MaxPrice       float64 `db:"max_price" json:"max_price"`
}

// TownAggregate is the per-town summary used by compare_towns and the
// popular_towns ranking.
type TownAggregate struct {
	Town           string  `db:"town" json:"town"`
	AvgResalePrice float64 `db:"avg_resale_price" json:"avg_resale_price"`
	Transactions   int     `db:"transactions" json:"transactions"`
	MinPrice       float64 `db:"min_price" json:"min_price"`
	MaxPrice       float64 `db:"max_price" json:"max_price"`
}

// Comparison holds the derived difference between the two compared towns.
// It is only set when both towns yielded an aggregate row.
type Comparison struct {
	PriceDifference   float64 `json:"price_difference"`
	PercentDifference string  `json:"percent_difference"`
	CheaperTown       string  `json:"cheaper_town"`
}

// PredictionRow is a stored model prediction from the prediction cache.
type PredictionRow struct {
	PredictionID    int       `db:"prediction_id" json:"prediction_id"`
	Town            string    `db:"town" json:"town"`
	FlatType        string    `db:"flat_type" json:"flat_type"`
	PredictionYear  int       `db:"prediction_year" json:"prediction_year"`
	PredictionMonth int       `db:"prediction_month" json:"prediction_month"`
	PredictedPrice  float64   `db:"predicted_price" json:"predicted_price"`
	ConfidenceLower float64   `db:"confidence_lower" json:"confidence_lower"`
	ConfidenceUpper float64   `db:"confidence_upper" json:"confidence_upper"`
	BasePrice       float64   `db:"base_price" json:"base_price"`
	YoyGrowthRate   float64   `db:"yoy_growth_rate" json:"yoy_growth_rate"`
	ModelVersion    string    `db:"model_version" json:"model_version"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// YearlyAverage is one year of historical average price, used as input
// to the linear projection fallback.
type YearlyAverage struct {
	AvgPrice float64 `db:"avg_price" json:"avg_price"`
	Year     int     `db:"year" json:"year"`
}

// Projection is a heuristically projected price when no stored
// prediction exists. ModelVersion distinguishes it from cache rows.
type Projection struct {
	Town            string `json:"town"`
	FlatType        string `json:"flat_type"`
	PredictionYear  int    `json:"prediction_year"`
	PredictedPrice  int    `json:"predicted_price"`
	ConfidenceLower int    `json:"confidence_lower"`
	ConfidenceUpper int    `json:"confidence_upper"`
	BasePrice       int    `json:"base_price"`
	YoyGrowthRate   string `json:"yoy_growth_rate"`
	ModelVersion    string `json:"model_version"`
	Note            string `json:"note,omitempty"`
}

// QueryResult is the uniform envelope every query builder returns.
// It is constructed fresh per call and never mutated after return.
// Business-level problems (town not found, two towns required, no
// historical data) travel in Error as ordinary data so the composer can
// still phrase a helpful reply; only infrastructure failures are
// returned as Go errors.
type QueryResult struct {
	Type           IntentKind      `json:"type"`
	Count          *int            `json:"count,omitempty"`
	Flats          []Flat          `json:"flats,omitempty"`
	Stats          *TownStats      `json:"stats,omitempty"`
	Towns          []TownAggregate `json:"towns,omitempty"`
	Points         []TrendPoint    `json:"points,omitempty"`
	Predictions    []PredictionRow `json:"predictions,omitempty"`
	Prediction     *Projection     `json:"prediction,omitempty"`
	HistoricalData []YearlyAverage `json:"historical_data,omitempty"`
	Comparison     *Comparison     `json:"comparison,omitempty"`
	Message        string          `json:"message,omitempty"`
	Error          string          `json:"error,omitempty"`
	FiltersApplied *FilterSet      `json:"filters_applied,omitempty"`
}

// Empty reports whether the envelope carries no result rows. The
// composer uses it to short-circuit to the deterministic "no results"
// sentence for non-prediction intents.
func (r *QueryResult) Empty() bool {
	if r.Count != nil && *r.Count == 0 {
		return true
	}
	if r.Flats != nil && len(r.Flats) == 0 {
		return true
	}
	return false
}
