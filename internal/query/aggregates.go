package query

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// TownStats returns a single aggregate row for one town. A missing town
// filter is a business error inside the envelope, not an exception.
func (s *Store) TownStats(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	if f.Town == nil {
		return &model.QueryResult{
			Type:  model.IntentTownStats,
			Error: "Please specify a town",
		}, nil
	}

	var b whereBuilder
	b.addTown(f)
	b.addFlatType(f)
	b.addYearBounds(f)

	query := fmt.Sprintf(`
		SELECT
			t.name AS town,
			COUNT(*) AS total_transactions,
			ROUND(AVG(rt.resale_price)) AS avg_price,
			MIN(rt.resale_price) AS min_price,
			MAX(rt.resale_price) AS max_price,
			MIN(EXTRACT(YEAR FROM rt.contract_date))::int AS earliest_year,
			MAX(EXTRACT(YEAR FROM rt.contract_date))::int AS latest_year
		%s %s
		GROUP BY t.name`, transactionJoins, b.where())

	var stats []model.TownStats
	if err := s.db.SelectContext(ctx, &stats, query, b.args...); err != nil {
		return nil, fmt.Errorf("town_stats query failed: %w", err)
	}

	if len(stats) == 0 {
		return &model.QueryResult{
			Type:  model.IntentTownStats,
			Error: fmt.Sprintf("No data found for %s", *f.Town),
		}, nil
	}

	return &model.QueryResult{
		Type:           model.IntentTownStats,
		Stats:          &stats[0],
		FiltersApplied: f,
	}, nil
}

// PopularTowns ranks up to 10 towns by transaction count.
func (s *Store) PopularTowns(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	var b whereBuilder
	b.addFlatType(f)
	b.addYearBounds(f)

	query := fmt.Sprintf(`
		SELECT t.name AS town, COUNT(*) AS transactions,
			ROUND(AVG(rt.resale_price)) AS avg_resale_price,
			MIN(rt.resale_price) AS min_price,
			MAX(rt.resale_price) AS max_price
		%s %s
		GROUP BY t.name
		ORDER BY transactions DESC
		LIMIT 10`, transactionJoins, b.where())

	towns := []model.TownAggregate{}
	if err := s.db.SelectContext(ctx, &towns, query, b.args...); err != nil {
		return nil, fmt.Errorf("popular_towns query failed: %w", err)
	}

	return &model.QueryResult{
		Type:           model.IntentPopularTowns,
		Towns:          towns,
		FiltersApplied: f,
	}, nil
}

// PriceTrend returns one row per year, ascending. Trends are inherently
// ranged, so only the start/end bounds apply here.
func (s *Store) PriceTrend(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	var b whereBuilder
	b.addTown(f)
	b.addFlatType(f)
	if f.StartYear != nil {
		b.add("EXTRACT(YEAR FROM rt.contract_date) >= $%d", *f.StartYear)
	}
	if f.EndYear != nil {
		b.add("EXTRACT(YEAR FROM rt.contract_date) <= $%d", *f.EndYear)
	}

	query := fmt.Sprintf(`
		SELECT EXTRACT(YEAR FROM rt.contract_date)::int AS year,
			ROUND(AVG(rt.resale_price)) AS avg_resale_price,
			COUNT(*) AS transactions,
			MIN(rt.resale_price) AS min_price,
			MAX(rt.resale_price) AS max_price
		%s %s
		GROUP BY year
		ORDER BY year`, transactionJoins, b.where())

	points := []model.TrendPoint{}
	if err := s.db.SelectContext(ctx, &points, query, b.args...); err != nil {
		return nil, fmt.Errorf("price_trend query failed: %w", err)
	}

	return &model.QueryResult{
		Type:           model.IntentPriceTrend,
		Points:         points,
		FiltersApplied: f,
	}, nil
}

// CompareTowns aggregates each of the two towns independently and
// derives the comparison only when both yielded a row. Fewer than two
// towns is a business error with an empty (non-nil) towns list.
func (s *Store) CompareTowns(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	if f.Town == nil || f.Town2 == nil {
		return &model.QueryResult{
			Type:  model.IntentCompareTowns,
			Towns: []model.TownAggregate{},
			Error: "Please specify two towns",
		}, nil
	}

	results := []model.TownAggregate{}
	for _, townName := range []string{*f.Town, *f.Town2} {
		var b whereBuilder
		b.add("t.name = $%d", strings.ToUpper(townName))
		b.addFlatType(f)
		b.addYearBounds(f)

		query := fmt.Sprintf(`
			SELECT t.name AS town, ROUND(AVG(rt.resale_price)) AS avg_resale_price,
				COUNT(*) AS transactions,
				MIN(rt.resale_price) AS min_price,
				MAX(rt.resale_price) AS max_price
			%s %s
			GROUP BY t.name`, transactionJoins, b.where())

		rows := []model.TownAggregate{}
		if err := s.db.SelectContext(ctx, &rows, query, b.args...); err != nil {
			return nil, fmt.Errorf("compare_towns query failed for %s: %w", townName, err)
		}
		if len(rows) > 0 {
			results = append(results, rows[0])
		}
	}

	res := &model.QueryResult{
		Type:           model.IntentCompareTowns,
		Towns:          results,
		FiltersApplied: f,
	}
	if len(results) == 2 {
		res.Comparison = compare(results[0], results[1])
	}
	return res, nil
}

// compare computes the absolute and relative price gap between two town
// aggregates and names the cheaper one.
func compare(a, b model.TownAggregate) *model.Comparison {
	diff := a.AvgResalePrice - b.AvgResalePrice
	cheaper := a.Town
	if diff > 0 {
		cheaper = b.Town
	}
	return &model.Comparison{
		PriceDifference:   math.Abs(diff),
		PercentDifference: fmt.Sprintf("%.2f", math.Abs(diff)/b.AvgResalePrice*100),
		CheaperTown:       cheaper,
	}
}
