package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// stubGenerator records the prompt it was given and returns a canned
// response.
type stubGenerator struct {
	t        *testing.T
	response string
	called   bool
	prompt   string
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userContent string) (string, error) {
	s.called = true
	s.prompt = systemPrompt
	return s.response, nil
}

// failIfCalled trips the test on any generation attempt.
type failIfCalled struct{ t *testing.T }

func (f *failIfCalled) Generate(ctx context.Context, systemPrompt, userContent string) (string, error) {
	f.t.Fatal("generation service called on a short-circuit path")
	return "", nil
}

func TestComposeGeneralReturnsHelpText(t *testing.T) {
	c := NewComposer(&failIfCalled{t: t})

	got, err := c.Compose(context.Background(), "hello",
		&model.ParsedIntent{Intent: model.IntentGeneral},
		&model.QueryResult{Type: model.IntentGeneral, Message: "Help query"})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if got != HelpText {
		t.Errorf("Compose = %q, want the canned help text", got)
	}
}

func TestComposeEmptyResultShortCircuits(t *testing.T) {
	c := NewComposer(&failIfCalled{t: t})

	parsed := &model.ParsedIntent{
		Intent: model.IntentSearchFlats,
		Filters: model.FilterSet{
			FlatType: model.String("4 ROOM"),
			Town:     model.String("BEDOK"),
			Year:     model.Int(2022),
		},
	}
	data := &model.QueryResult{
		Type:  model.IntentSearchFlats,
		Count: model.Int(0),
		Flats: []model.Flat{},
	}

	got, err := c.Compose(context.Background(), "4 room in bedok in 2022", parsed, data)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	want := "I couldn't find any past transactions 4 ROOM flats in BEDOK in 2022. Try broadening your search or check the town name."
	if got != want {
		t.Errorf("Compose = %q, want %q", got, want)
	}
}

func TestComposeEmptyResultWithoutFilters(t *testing.T) {
	c := NewComposer(&failIfCalled{t: t})

	got, err := c.Compose(context.Background(), "flats",
		&model.ParsedIntent{Intent: model.IntentSearchFlats},
		&model.QueryResult{Type: model.IntentSearchFlats, Count: model.Int(0)})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if !strings.Contains(got, "with those filters") {
		t.Errorf("Compose = %q, want the generic no-results phrasing", got)
	}
}

func TestComposeEmptyPredictionStillGenerates(t *testing.T) {
	// Prediction envelopes carry error text the model should phrase, so
	// emptiness does not short-circuit them.
	gen := &stubGenerator{t: t, response: "No prediction data is available."}
	c := NewComposer(gen)

	parsed := &model.ParsedIntent{Intent: model.IntentPricePrediction}
	data := &model.QueryResult{Type: model.IntentPricePrediction, Count: model.Int(0)}

	if _, err := c.Compose(context.Background(), "predict prices", parsed, data); err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if !gen.called {
		t.Error("generation service was not called for a prediction result")
	}
	if !strings.Contains(gen.prompt, "price predictions") {
		t.Errorf("prompt subject = %q, want the prediction framing", gen.prompt)
	}
}

func TestComposeStripsEmphasis(t *testing.T) {
	gen := &stubGenerator{t: t, response: "The **average** price was *high*."}
	c := NewComposer(gen)

	parsed := &model.ParsedIntent{Intent: model.IntentTownStats}
	data := &model.QueryResult{
		Type:  model.IntentTownStats,
		Stats: &model.TownStats{Town: "BEDOK", TotalTransactions: 100, AvgPrice: 500000},
	}

	got, err := c.Compose(context.Background(), "stats for bedok", parsed, data)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if strings.Contains(got, "*") {
		t.Errorf("Compose = %q, want all asterisks stripped", got)
	}
	if !strings.Contains(gen.prompt, "PAST resale transactions") {
		t.Errorf("prompt subject = %q, want the historical framing", gen.prompt)
	}
}

func TestAdviseAlternativesTruncatesTowns(t *testing.T) {
	gen := &stubGenerator{t: t, response: "Try these queries."}
	c := NewComposer(gen)

	towns := []string{
		"ANG MO KIO", "BEDOK", "BISHAN", "BUKIT BATOK", "BUKIT MERAH",
		"BUKIT PANJANG", "BUKIT TIMAH", "CENTRAL AREA", "CHOA CHU KANG",
		"CLEMENTI", "GEYLANG", "HOUGANG",
	}

	if _, err := c.AdviseAlternatives(context.Background(), "bad query", towns); err != nil {
		t.Fatalf("AdviseAlternatives returned error: %v", err)
	}
	if strings.Contains(gen.prompt, "GEYLANG") || strings.Contains(gen.prompt, "HOUGANG") {
		t.Errorf("prompt = %q, want at most 10 towns listed", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "CLEMENTI") {
		t.Errorf("prompt = %q, want the tenth town present", gen.prompt)
	}
}
