// Package answer turns a query result into the natural-language reply:
// a canned help text for greetings, a deterministic sentence for empty
// results, and otherwise a generation-service summary with markdown
// emphasis stripped.
package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hdb-analytics/resale-chatbot/internal/llm"
	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// HelpText is returned verbatim for the general intent, without any
// network call.
const HelpText = `I'm your HDB Resale Analytics Assistant!

I help you analyze PAST HDB resale transactions (2017-2025) and predict future prices.

What I can do:
- Search transactions - "Show me 4-room flats in Tampines"
- Price predictions - "Predict 4-room price in Bedok in 10 years"
- Compare towns - "Compare Punggol and Sengkang"
- Price trends - "Price trend for 4-room in Bishan"
- Popular towns - "Which towns had most transactions?"
- Cheapest/Most expensive - "Most expensive 5-room in 2022"
- Custom row limits - "Show me 10 rows of data"

Available data: 26 towns, 1-ROOM to EXECUTIVE flats, years 2017-2025`

// Composer builds replies and fallback suggestions through the
// generation gateway.
type Composer struct {
	gen llm.TextGenerator
}

func NewComposer(gen llm.TextGenerator) *Composer {
	return &Composer{gen: gen}
}

// Compose produces the reply for a completed query. The general intent
// and empty non-prediction results short-circuit without touching the
// generation service.
func (c *Composer) Compose(ctx context.Context, message string, parsed *model.ParsedIntent, data *model.QueryResult) (string, error) {
	if parsed.Intent == model.IntentGeneral {
		return HelpText, nil
	}

	if data.Empty() && parsed.Intent != model.IntentPricePrediction {
		return noResultsSentence(&parsed.Filters), nil
	}

	subject := "PAST resale transactions"
	if parsed.Intent == model.IntentPricePrediction {
		subject = "price predictions"
	}

	filtersJSON, _ := json.Marshal(parsed.Filters)
	dataJSON, _ := json.MarshalIndent(data, "", "  ")

	prompt := fmt.Sprintf(`
You are analyzing Singapore HDB %s.

User asked: %q
Intent: %q
Filters: %s
Data: %s

RULES:
1. NO asterisks, NO markdown
2. For predictions, clearly state it's a prediction
3. For past data, say "past transactions"
4. Mention all applied filters
5. 3-5 sentences max
6. Plain text only

Response:
`, subject, message, parsed.Intent, filtersJSON, dataJSON)

	out, err := c.gen.Generate(ctx, prompt, string(dataJSON))
	if err != nil {
		return "", err
	}
	return stripEmphasis(out), nil
}

// AdviseAlternatives asks the generation service for three example
// working queries after a pipeline failure. It may itself fail; the
// orchestrator holds the final hardcoded fallback.
func (c *Composer) AdviseAlternatives(ctx context.Context, message string, availableTowns []string) (string, error) {
	if len(availableTowns) > 10 {
		availableTowns = availableTowns[:10]
	}

	prompt := fmt.Sprintf(`
User query failed: %q
Available towns: %s

Generate helpful response with 3 similar working queries. Plain text, no asterisks.
`, message, strings.Join(availableTowns, ", "))

	out, err := c.gen.Generate(ctx, prompt, "")
	if err != nil {
		return "", err
	}
	return stripEmphasis(out), nil
}

// noResultsSentence describes the applied filters deterministically.
func noResultsSentence(f *model.FilterSet) string {
	var desc []string
	if f.FlatType != nil {
		desc = append(desc, *f.FlatType+" flats")
	}
	if f.Town != nil {
		desc = append(desc, "in "+*f.Town)
	}
	if f.Year != nil {
		desc = append(desc, fmt.Sprintf("in %d", *f.Year))
	}

	filterStr := "with those filters"
	if len(desc) > 0 {
		filterStr = strings.Join(desc, " ")
	}
	return fmt.Sprintf("I couldn't find any past transactions %s. Try broadening your search or check the town name.", filterStr)
}

// stripEmphasis removes residual markdown emphasis characters the model
// was told not to produce.
func stripEmphasis(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "**", ""), "*", "")
}
