package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// Extraction is the output of the deterministic lexical pass. Nil
// fields mean the pattern did not match; ForcedIntent is "" when no
// keyword branch fired. Any non-nil field here overrides whatever the
// generative model returns for the same field.
type Extraction struct {
	FlatType       *string
	Year           *int
	StartYear      *int
	EndYear        *int
	PredictionYear *int
	MinPrice       *int
	MaxPrice       *int
	Limit          *int
	ForcedIntent   model.IntentKind
}

var flatTypePatterns = []struct {
	re       *regexp.Regexp
	flatType string
}{
	{regexp.MustCompile(`(?i)\b(1[\s-]?room|one[\s-]?room)\b`), "1 ROOM"},
	{regexp.MustCompile(`(?i)\b(2[\s-]?room|two[\s-]?room)\b`), "2 ROOM"},
	{regexp.MustCompile(`(?i)\b(3[\s-]?room|three[\s-]?room)\b`), "3 ROOM"},
	{regexp.MustCompile(`(?i)\b(4[\s-]?room|four[\s-]?room)\b`), "4 ROOM"},
	{regexp.MustCompile(`(?i)\b(5[\s-]?room|five[\s-]?room)\b`), "5 ROOM"},
	{regexp.MustCompile(`(?i)\bexecutive\b`), "EXECUTIVE"},
}

var (
	yearsAheadRe   = regexp.MustCompile(`(?i)in\s+(\d+)\s+years?`)
	specificYearRe = regexp.MustCompile(`(?i)\b(?:in|by|for)\s+(20\d{2})\b`)
	yearRangeRe    = regexp.MustCompile(`(?i)(?:from|between)\s+(20\d{2})\s+(?:to|and|-)\s+(20\d{2})`)

	limitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)show\s+(?:me\s+)?(\d+)\s+(?:rows?|results?|entries)`),
		regexp.MustCompile(`(?i)(\d+)\s+(?:rows?|results?|entries)`),
		regexp.MustCompile(`(?i)top\s+(\d+)`),
		regexp.MustCompile(`(?i)first\s+(\d+)`),
	}

	underPriceRe = regexp.MustCompile(`(?i)(?:under|below|less than|cheaper than)\s*\$?\s*(\d+)(k?)`)
	overPriceRe  = regexp.MustCompile(`(?i)(?:above|over|more than|expensive than)\s*\$?\s*(\d+)(k?)`)
	priceRangeRe = regexp.MustCompile(`(?i)between\s*\$?\s*(\d+)(k?)\s*(?:and|to|-)\s*\$?\s*(\d+)(k?)`)
)

// PreExtract runs the deterministic pattern pass over the raw message.
// Pure and side-effect free: same message and year always yield the
// same extraction. currentYear anchors the "in N years" arithmetic and
// the future-year prediction gate.
func PreExtract(message string, currentYear int) Extraction {
	var ex Extraction
	lower := strings.ToLower(message)

	// Flat type: first matching pattern wins, no multi-type detection.
	for _, p := range flatTypePatterns {
		if p.re.MatchString(message) {
			ex.FlatType = model.String(p.flatType)
			break
		}
	}

	// "in N years" always wins over an explicit-year match: it is
	// checked first and gates the specific-year branch entirely.
	yearsAhead := yearsAheadRe.FindStringSubmatch(message)
	if yearsAhead != nil {
		n, _ := strconv.Atoi(yearsAhead[1])
		ex.PredictionYear = model.Int(currentYear + n)
	}

	if m := specificYearRe.FindStringSubmatch(message); m != nil && yearsAhead == nil {
		year, _ := strconv.Atoi(m[1])
		// A future year is a prediction only when the message also asks
		// for one; otherwise it is a historical exact-year filter.
		if year > currentYear && containsAny(lower, "predict", "forecast", "future") {
			ex.PredictionYear = model.Int(year)
		} else {
			ex.Year = model.Int(year)
		}
	}

	if m := yearRangeRe.FindStringSubmatch(message); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		ex.StartYear = model.Int(start)
		ex.EndYear = model.Int(end)
	}

	for _, re := range limitPatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			n, _ := strconv.Atoi(m[1])
			ex.Limit = model.Int(n)
			break
		}
	}

	// Price bounds. The "between $N and $M" pattern is applied last and
	// overwrites individual under/over matches on conflict.
	if m := underPriceRe.FindStringSubmatch(message); m != nil {
		ex.MaxPrice = model.Int(priceValue(m[1], m[2]))
	}
	if m := overPriceRe.FindStringSubmatch(message); m != nil {
		ex.MinPrice = model.Int(priceValue(m[1], m[2]))
	}
	if m := priceRangeRe.FindStringSubmatch(message); m != nil {
		ex.MinPrice = model.Int(priceValue(m[1], m[2]))
		ex.MaxPrice = model.Int(priceValue(m[3], m[4]))
	}

	ex.ForcedIntent = forcedIntent(lower, yearsAhead != nil)
	return ex
}

// forcedIntent is the ordered keyword chain. The first matching branch
// wins and no later branch is evaluated; the branch order is normative.
func forcedIntent(lower string, yearsAhead bool) model.IntentKind {
	switch {
	case (containsAny(lower, "predict", "forecast", "future") || yearsAhead) &&
		containsAny(lower, "price", "cost"):
		return model.IntentPricePrediction
	case containsAny(lower, "compare", "comparison") && containsAny(lower, "between", "and"):
		return model.IntentCompareTowns
	case containsAny(lower, "popular", "most") && strings.Contains(lower, "town"):
		return model.IntentPopularTowns
	case containsAny(lower, "cheapest", "affordable"):
		return model.IntentCheapestOptions
	case containsAny(lower, "most expensive", "highest price", "priciest"):
		return model.IntentMostExpensive
	case strings.Contains(lower, "total") && strings.Contains(lower, "transaction"):
		return model.IntentTownStats
	case strings.Contains(lower, "trend") ||
		(strings.Contains(lower, "price") && strings.Contains(lower, "change")):
		return model.IntentPriceTrend
	case strings.Contains(lower, "help") || lower == "hi" || lower == "hello":
		return model.IntentGeneral
	}
	return ""
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// priceValue applies the thousands suffix: "500" + "k" -> 500000.
func priceValue(digits, suffix string) int {
	n, _ := strconv.Atoi(digits)
	if suffix != "" {
		n *= 1000
	}
	return n
}
