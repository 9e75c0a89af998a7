package query

import (
	"fmt"
	"strings"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// whereBuilder accumulates parameterized WHERE clauses with sequential
// $n placeholders. Each expr must contain exactly one %d verb for the
// placeholder index.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (b *whereBuilder) add(expr string, value interface{}) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf(expr, len(b.args)))
}

// where renders the accumulated clauses, or "" when no filter applies.
func (b *whereBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.clauses, " AND ")
}

// nextArg appends a non-filter argument (such as LIMIT) and returns its
// placeholder index.
func (b *whereBuilder) nextArg(value interface{}) int {
	b.args = append(b.args, value)
	return len(b.args)
}

// addTown and addFlatType apply uppercased exact-match equality against
// the dataset's stored values.
func (b *whereBuilder) addTown(f *model.FilterSet) {
	if f.Town != nil {
		b.add("t.name = $%d", strings.ToUpper(*f.Town))
	}
}

func (b *whereBuilder) addFlatType(f *model.FilterSet) {
	if f.FlatType != nil {
		b.add("hf.flat_type = $%d", strings.ToUpper(*f.FlatType))
	}
}

// addYearBounds applies the exact year when present and only falls back
// to the start/end range in its absence: exact year always wins.
func (b *whereBuilder) addYearBounds(f *model.FilterSet) {
	if f.Year != nil {
		b.add("EXTRACT(YEAR FROM rt.contract_date) = $%d", *f.Year)
		return
	}
	if f.StartYear != nil {
		b.add("EXTRACT(YEAR FROM rt.contract_date) >= $%d", *f.StartYear)
	}
	if f.EndYear != nil {
		b.add("EXTRACT(YEAR FROM rt.contract_date) <= $%d", *f.EndYear)
	}
}

// addPriceBounds applies inclusive min/max resale price filters.
func (b *whereBuilder) addPriceBounds(f *model.FilterSet) {
	if f.MinPrice != nil {
		b.add("rt.resale_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add("rt.resale_price <= $%d", *f.MaxPrice)
	}
}

// limitOrDefault returns the user's row cap or the per-intent default.
func limitOrDefault(f *model.FilterSet, def int) int {
	if f.Limit != nil && *f.Limit > 0 {
		return *f.Limit
	}
	return def
}
