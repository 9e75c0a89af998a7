package query

import (
	"context"
	"fmt"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// transactionColumns is the row shape shared by the three transaction
// list builders. EXTRACT yields numerics, so the year is cast for Go
// scanning.
const transactionColumns = `
	rt.transaction_id, rt.flat_id, rt.contract_date, rt.resale_price,
	hf.flat_type, COALESCE(hf.floor_area_sqm, 0) AS floor_area_sqm,
	hb.block_no AS block, hb.street_name, t.name AS town,
	EXTRACT(YEAR FROM rt.contract_date)::int AS year`

const transactionJoins = `
	FROM resale_transaction rt
	JOIN hdbflat hf ON rt.flat_id = hf.flat_id
	JOIN hdbblock hb ON hf.block_id = hb.block_id
	JOIN town t ON hb.town_id = t.town_id`

// SearchFlats returns matching transactions newest first.
func (s *Store) SearchFlats(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	return s.listTransactions(ctx, f, model.IntentSearchFlats, "rt.contract_date DESC", s.limits.Search)
}

// CheapestOptions returns matching transactions cheapest first.
func (s *Store) CheapestOptions(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	return s.listTransactions(ctx, f, model.IntentCheapestOptions, "rt.resale_price ASC", s.limits.TopN)
}

// MostExpensive returns matching transactions priciest first.
func (s *Store) MostExpensive(ctx context.Context, f *model.FilterSet) (*model.QueryResult, error) {
	return s.listTransactions(ctx, f, model.IntentMostExpensive, "rt.resale_price DESC", s.limits.TopN)
}

// listTransactions is the shared body of the three list builders: same
// filters and row shape, different ordering and default cap. Finding no
// rows is not an error; the envelope carries count 0 and an empty list.
func (s *Store) listTransactions(ctx context.Context, f *model.FilterSet, kind model.IntentKind, orderBy string, defaultLimit int) (*model.QueryResult, error) {
	var b whereBuilder
	b.addTown(f)
	b.addFlatType(f)
	b.addPriceBounds(f)
	b.addYearBounds(f)

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s LIMIT $%d`,
		transactionColumns, transactionJoins, b.where(), orderBy,
		b.nextArg(limitOrDefault(f, defaultLimit)))

	flats := []model.Flat{}
	if err := s.db.SelectContext(ctx, &flats, query, b.args...); err != nil {
		return nil, fmt.Errorf("%s query failed: %w", kind, err)
	}

	return &model.QueryResult{
		Type:           kind,
		Count:          model.Int(len(flats)),
		Flats:          flats,
		FiltersApplied: f,
	}, nil
}
