package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// ModelVersionLinearProjection labels the heuristic fallback so callers
// can distinguish a projection from a stored model prediction.
const ModelVersionLinearProjection = "simple_linear_projection"

const projectionNote = "Estimated based on recent historical trends (no database prediction available)"

// Years of history fetched for the projection fallback.
const projectionHistoryYears = 5

// Confidence band applied around a projected price.
const projectionBand = 0.15

// PricePrediction serves future-price questions. Preference order:
// stored monthly predictions for the (town, flat type, year) triple,
// then a linear projection over recent history, then a business error.
// Missing required filters and unresolvable towns are errors inside the
// envelope, never thrown.
func (s *Store) PricePrediction(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	if f.Town == nil || f.FlatType == nil || f.PredictionYear == nil {
		return &model.QueryResult{
			Type:  model.IntentPricePrediction,
			Error: "Please specify town, flat type, and prediction year",
		}, nil
	}

	town := strings.ToUpper(*f.Town)
	flatType := strings.ToUpper(*f.FlatType)

	var townID int
	err := s.db.GetContext(ctx, &townID, `SELECT town_id FROM town WHERE name = $1`, town)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.QueryResult{
			Type:  model.IntentPricePrediction,
			Error: fmt.Sprintf("Town %q not found", *f.Town),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("town lookup failed: %w", err)
	}

	rows := []model.PredictionRow{}
	err = s.db.SelectContext(ctx, &rows, `
		SELECT
			pp.prediction_id, t.name AS town, pp.flat_type,
			pp.prediction_year, pp.prediction_month, pp.predicted_price,
			COALESCE(pp.confidence_lower, 0) AS confidence_lower,
			COALESCE(pp.confidence_upper, 0) AS confidence_upper,
			COALESCE(pp.base_price, 0) AS base_price,
			COALESCE(pp.yoy_growth_rate, 0) AS yoy_growth_rate,
			pp.model_version, pp.created_at
		FROM price_prediction pp
		JOIN town t ON pp.town_id = t.town_id
		WHERE pp.town_id = $1 AND pp.flat_type = $2 AND pp.prediction_year = $3
		ORDER BY pp.prediction_month
		LIMIT $4`,
		townID, flatType, *f.PredictionYear, limitOrDefault(f, s.limits.PredictionMonths))
	if err != nil {
		return nil, fmt.Errorf("prediction lookup failed: %w", err)
	}

	if len(rows) > 0 {
		return &model.QueryResult{
			Type:           model.IntentPricePrediction,
			Predictions:    rows,
			Count:          model.Int(len(rows)),
			FiltersApplied: f,
		}, nil
	}

	// No stored prediction: project from recent yearly averages.
	history := []model.YearlyAverage{}
	err = s.db.SelectContext(ctx, &history, fmt.Sprintf(`
		SELECT
			ROUND(AVG(rt.resale_price)) AS avg_price,
			EXTRACT(YEAR FROM rt.contract_date)::int AS year
		%s
		WHERE t.name = $1 AND hf.flat_type = $2
		GROUP BY year
		ORDER BY year DESC
		LIMIT $3`, transactionJoins),
		town, flatType, projectionHistoryYears)
	if err != nil {
		return nil, fmt.Errorf("historical price query failed: %w", err)
	}

	if len(history) == 0 {
		return &model.QueryResult{
			Type:  model.IntentPricePrediction,
			Error: fmt.Sprintf("No historical data found for %s in %s", flatType, town),
		}, nil
	}

	projection := linearProjection(history, town, flatType, *f.PredictionYear, time.Now().Year())
	return &model.QueryResult{
		Type:           model.IntentPricePrediction,
		Prediction:     &projection,
		HistoricalData: history,
		FiltersApplied: f,
	}, nil
}

// linearProjection extrapolates from the most recent year's average
// using the average year-over-year delta across the fetched history,
// with a symmetric band for the confidence interval. history must be
// non-empty and ordered most recent first.
func linearProjection(history []model.YearlyAverage, town, flatType string, targetYear, currentYear int) model.Projection {
	basePrice := history[0].AvgPrice

	var avgGrowth float64
	if len(history) > 1 {
		avgGrowth = (history[0].AvgPrice - history[len(history)-1].AvgPrice) / float64(len(history))
	}

	yearsAhead := targetYear - currentYear
	predicted := basePrice + avgGrowth*float64(yearsAhead)

	return model.Projection{
		Town:            town,
		FlatType:        flatType,
		PredictionYear:  targetYear,
		PredictedPrice:  int(math.Round(predicted)),
		ConfidenceLower: int(math.Round(predicted * (1 - projectionBand))),
		ConfidenceUpper: int(math.Round(predicted * (1 + projectionBand))),
		BasePrice:       int(math.Round(basePrice)),
		YoyGrowthRate:   fmt.Sprintf("%.2f", avgGrowth/basePrice*100),
		ModelVersion:    ModelVersionLinearProjection,
		Note:            projectionNote,
	}
}
