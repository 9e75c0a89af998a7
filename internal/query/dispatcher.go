package query

import (
	"context"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// Dispatcher maps a resolved intent to its query builder. It is a pure
// mapping over the ParsedIntent shape; each builder owns its own
// filters, default limit, and result shaping.
type Dispatcher struct {
	store *Store
}

func NewDispatcher(store *Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Dispatch runs the builder for the parsed intent. Builders return
// business errors inside the envelope; only infrastructure failures
// (connection, SQL) come back as Go errors, which the orchestrator
// treats as a pipeline failure.
func (d *Dispatcher) Dispatch(ctx context.Context, parsed *model.ParsedIntent) (*model.QueryResult, error) {
	f := &parsed.Filters

	switch parsed.Intent {
	case model.IntentPricePrediction:
		return d.store.PricePrediction(ctx, f)
	case model.IntentSearchFlats:
		return d.store.SearchFlats(ctx, f)
	case model.IntentTownStats:
		return d.store.TownStats(ctx, f)
	case model.IntentCheapestOptions:
		return d.store.CheapestOptions(ctx, f)
	case model.IntentMostExpensive:
		return d.store.MostExpensive(ctx, f)
	case model.IntentPopularTowns:
		return d.store.PopularTowns(ctx, f)
	case model.IntentPriceTrend:
		return d.store.PriceTrend(ctx, f)
	case model.IntentCompareTowns:
		return d.store.CompareTowns(ctx, f)
	case model.IntentGeneral:
		return &model.QueryResult{Type: model.IntentGeneral, Message: "Help query"}, nil
	default:
		// Unrecognized model output is surfaced, not guessed at.
		return &model.QueryResult{Type: parsed.Intent, Message: "Unknown intent"}, nil
	}
}
