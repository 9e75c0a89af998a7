package intent

import (
	"testing"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

const testYear = 2025

func TestPreExtractFlatType(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Show me 4-room flats in Tampines", "4 ROOM"},
		{"show me 4 room flats", "4 ROOM"},
		{"any four-room options?", "4 ROOM"},
		{"three room flats please", "3 ROOM"},
		{"EXECUTIVE flats in Bishan", "EXECUTIVE"},
		{"5room in Yishun", "5 ROOM"},
		{"studio apartment in Yishun", ""},
	}

	for _, tt := range tests {
		ex := PreExtract(tt.message, testYear)
		if tt.want == "" {
			if ex.FlatType != nil {
				t.Errorf("PreExtract(%q).FlatType = %q, want nil", tt.message, *ex.FlatType)
			}
			continue
		}
		if ex.FlatType == nil || *ex.FlatType != tt.want {
			t.Errorf("PreExtract(%q).FlatType = %v, want %q", tt.message, ex.FlatType, tt.want)
		}
	}
}

func TestPreExtractYearsAheadWinsOverExplicitYear(t *testing.T) {
	ex := PreExtract("Predict 4-room price in 10 years by 2030", testYear)
	if ex.PredictionYear == nil || *ex.PredictionYear != testYear+10 {
		t.Fatalf("PredictionYear = %v, want %d", ex.PredictionYear, testYear+10)
	}
	if ex.Year != nil {
		t.Errorf("Year = %d, want nil when relative horizon present", *ex.Year)
	}
}

func TestPreExtractExplicitYear(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		wantYear       *int
		wantPrediction *int
	}{
		{"past year is historical", "Show flats in Bedok in 2022", model.Int(2022), nil},
		{"future year without keyword is historical", "Show flats in Bedok in 2030", model.Int(2030), nil},
		{"future year with predict keyword", "Predict prices in Bedok by 2030", nil, model.Int(2030)},
		{"future year with forecast keyword", "Forecast for 2028", nil, model.Int(2028)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := PreExtract(tt.message, testYear)
			if !intPtrEqual(ex.Year, tt.wantYear) {
				t.Errorf("Year = %v, want %v", intPtrVal(ex.Year), intPtrVal(tt.wantYear))
			}
			if !intPtrEqual(ex.PredictionYear, tt.wantPrediction) {
				t.Errorf("PredictionYear = %v, want %v", intPtrVal(ex.PredictionYear), intPtrVal(tt.wantPrediction))
			}
		})
	}
}

func TestPreExtractYearRange(t *testing.T) {
	ex := PreExtract("price trend from 2019 to 2023", testYear)
	if ex.StartYear == nil || *ex.StartYear != 2019 {
		t.Errorf("StartYear = %v, want 2019", intPtrVal(ex.StartYear))
	}
	if ex.EndYear == nil || *ex.EndYear != 2023 {
		t.Errorf("EndYear = %v, want 2023", intPtrVal(ex.EndYear))
	}

	ex = PreExtract("between 2020 and 2022", testYear)
	if ex.StartYear == nil || *ex.StartYear != 2020 || ex.EndYear == nil || *ex.EndYear != 2022 {
		t.Errorf("range = (%v, %v), want (2020, 2022)", intPtrVal(ex.StartYear), intPtrVal(ex.EndYear))
	}
}

func TestPreExtractLimit(t *testing.T) {
	tests := []struct {
		message string
		want    int
	}{
		{"show me 15 rows", 15},
		{"give me 25 results", 25},
		{"top 5 most expensive flats", 5},
		{"first 8 entries sorted by price", 8},
	}

	for _, tt := range tests {
		ex := PreExtract(tt.message, testYear)
		if ex.Limit == nil || *ex.Limit != tt.want {
			t.Errorf("PreExtract(%q).Limit = %v, want %d", tt.message, intPtrVal(ex.Limit), tt.want)
		}
	}
}

func TestPreExtractPriceBounds(t *testing.T) {
	ex := PreExtract("flats under $500k", testYear)
	if ex.MaxPrice == nil || *ex.MaxPrice != 500000 {
		t.Errorf("MaxPrice = %v, want 500000", intPtrVal(ex.MaxPrice))
	}

	ex = PreExtract("flats above $400000", testYear)
	if ex.MinPrice == nil || *ex.MinPrice != 400000 {
		t.Errorf("MinPrice = %v, want 400000", intPtrVal(ex.MinPrice))
	}

	// The range pattern runs last and overwrites the individual bounds.
	ex = PreExtract("flats under $900k between $300k and $600k", testYear)
	if ex.MinPrice == nil || *ex.MinPrice != 300000 {
		t.Errorf("MinPrice = %v, want 300000", intPtrVal(ex.MinPrice))
	}
	if ex.MaxPrice == nil || *ex.MaxPrice != 600000 {
		t.Errorf("MaxPrice = %v, want 600000", intPtrVal(ex.MaxPrice))
	}
}

func TestForcedIntent(t *testing.T) {
	tests := []struct {
		message string
		want    model.IntentKind
	}{
		{"Predict 4-room price in Bedok in 10 years", model.IntentPricePrediction},
		{"What will prices cost in the future?", model.IntentPricePrediction},
		{"Compare prices between Bedok and Tampines", model.IntentCompareTowns},
		{"Which towns had the most transactions?", model.IntentPopularTowns},
		{"cheapest flats in Yishun", model.IntentCheapestOptions},
		{"most affordable options", model.IntentCheapestOptions},
		{"priciest flats this year", model.IntentMostExpensive},
		{"total transactions in Bishan", model.IntentTownStats},
		{"price trend for Hougang", model.IntentPriceTrend},
		{"how did prices change over time", model.IntentPriceTrend},
		{"help", model.IntentGeneral},
		{"hi", model.IntentGeneral},
		{"hello", model.IntentGeneral},
		{"Hello", model.IntentGeneral},
		{"hi there", ""},
		{"Show me flats in Punggol", ""},
	}

	for _, tt := range tests {
		ex := PreExtract(tt.message, testYear)
		if ex.ForcedIntent != tt.want {
			t.Errorf("PreExtract(%q).ForcedIntent = %q, want %q", tt.message, ex.ForcedIntent, tt.want)
		}
	}
}

// The branch order is load-bearing: a message matching several keyword
// groups resolves to the earliest branch.
func TestForcedIntentBranchOrder(t *testing.T) {
	// "predict" + "price" beats the compare branch even with "and".
	ex := PreExtract("predict and compare prices between towns", testYear)
	if ex.ForcedIntent != model.IntentPricePrediction {
		t.Errorf("ForcedIntent = %q, want %q", ex.ForcedIntent, model.IntentPricePrediction)
	}

	// "cheapest" beats the trend branch.
	ex = PreExtract("cheapest flats, and how is the trend", testYear)
	if ex.ForcedIntent != model.IntentCheapestOptions {
		t.Errorf("ForcedIntent = %q, want %q", ex.ForcedIntent, model.IntentCheapestOptions)
	}

	// "most expensive" carries "most" but needs "town" to rank towns.
	ex = PreExtract("most expensive flats", testYear)
	if ex.ForcedIntent != model.IntentMostExpensive {
		t.Errorf("ForcedIntent = %q, want %q", ex.ForcedIntent, model.IntentMostExpensive)
	}
}

func TestPreExtractDeterministic(t *testing.T) {
	msg := "Predict 4-room price in Bedok in 10 years, top 5, under $800k"
	a := PreExtract(msg, testYear)
	b := PreExtract(msg, testYear)
	if !intPtrEqual(a.PredictionYear, b.PredictionYear) || !intPtrEqual(a.Limit, b.Limit) ||
		!intPtrEqual(a.MaxPrice, b.MaxPrice) || a.ForcedIntent != b.ForcedIntent {
		t.Error("PreExtract is not deterministic for identical input")
	}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrVal(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
