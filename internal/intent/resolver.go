package intent

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/hdb-analytics/resale-chatbot/internal/llm"
	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// Resolver orchestrates the pre-extractor and the generation gateway
// into a single ParsedIntent per message. The model is a completion
// mechanism, not an authority: every field the lexical pass determined
// is overlaid on top of the model's guess.
type Resolver struct {
	gen llm.TextGenerator

	// nowYear is injectable so extraction is reproducible in tests.
	nowYear func() int
}

func NewResolver(gen llm.TextGenerator) *Resolver {
	return &Resolver{
		gen:     gen,
		nowYear: func() int { return time.Now().Year() },
	}
}

// Markdown code-fence wrappers the model tends to put around JSON.
var (
	jsonFenceRe = regexp.MustCompile("(?i)```json\\s*")
	fenceRe     = regexp.MustCompile("```\\s*")
)

// Resolve classifies the message and merges filters. Gateway transport
// errors propagate to the caller; a malformed (non-JSON) model response
// does not, the pipeline degrades to the heuristics-only result instead
// of failing the request.
func (r *Resolver) Resolve(ctx context.Context, message string) (*model.ParsedIntent, error) {
	pre := PreExtract(message, r.nowYear())

	raw, err := r.gen.Generate(ctx, extractionPrompt, message)
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(jsonFenceRe.ReplaceAllString(raw, ""), ""))

	var parsed model.ParsedIntent
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		log.Printf("intent parse error, falling back to heuristics: %v", err)
		return heuristicResult(pre), nil
	}

	applyOverlay(&parsed, pre)
	log.Printf("intent resolved: %s", parsed.Intent)
	return &parsed, nil
}

// applyOverlay merges the deterministic extraction into the model's
// result. Order matters and mirrors the resolution contract: forced
// intent first, then flat type, then town canonicalization, then the
// numeric fields, and finally flat-type string normalization.
func applyOverlay(parsed *model.ParsedIntent, pre Extraction) {
	if pre.ForcedIntent != "" {
		parsed.Intent = pre.ForcedIntent
	}
	if pre.FlatType != nil {
		parsed.Filters.FlatType = pre.FlatType
	}

	if parsed.Filters.Town != nil {
		parsed.Filters.Town = model.String(CanonicalTown(*parsed.Filters.Town))
	}
	if parsed.Filters.Town2 != nil {
		parsed.Filters.Town2 = model.String(CanonicalTown(*parsed.Filters.Town2))
	}

	if pre.PredictionYear != nil {
		parsed.Filters.PredictionYear = pre.PredictionYear
	}
	if pre.Year != nil {
		parsed.Filters.Year = pre.Year
	}
	if pre.StartYear != nil {
		parsed.Filters.StartYear = pre.StartYear
	}
	if pre.EndYear != nil {
		parsed.Filters.EndYear = pre.EndYear
	}
	if pre.MinPrice != nil {
		parsed.Filters.MinPrice = pre.MinPrice
	}
	if pre.MaxPrice != nil {
		parsed.Filters.MaxPrice = pre.MaxPrice
	}
	if pre.Limit != nil {
		parsed.Filters.Limit = pre.Limit
	}

	if parsed.Filters.FlatType != nil {
		if canonical := CanonicalFlatType(*parsed.Filters.FlatType); canonical != "" {
			parsed.Filters.FlatType = model.String(canonical)
		}
	}
}

// heuristicResult is the parse-failure fallback: the pre-extracted
// fields with towns left unset, and search_flats unless a keyword
// branch forced something else.
func heuristicResult(pre Extraction) *model.ParsedIntent {
	kind := model.IntentSearchFlats
	if pre.ForcedIntent != "" {
		kind = pre.ForcedIntent
	}
	return &model.ParsedIntent{
		Intent: kind,
		Filters: model.FilterSet{
			FlatType:       pre.FlatType,
			MinPrice:       pre.MinPrice,
			MaxPrice:       pre.MaxPrice,
			Year:           pre.Year,
			StartYear:      pre.StartYear,
			EndYear:        pre.EndYear,
			PredictionYear: pre.PredictionYear,
			Limit:          pre.Limit,
		},
	}
}
