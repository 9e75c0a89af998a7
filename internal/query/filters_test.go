package query

import (
	"testing"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

func TestWhereBuilderEmpty(t *testing.T) {
	var b whereBuilder
	if got := b.where(); got != "" {
		t.Errorf("where() = %q, want empty string", got)
	}
	if len(b.args) != 0 {
		t.Errorf("args = %v, want none", b.args)
	}
}

func TestWhereBuilderSequentialPlaceholders(t *testing.T) {
	var b whereBuilder
	f := &model.FilterSet{
		Town:     model.String("tampines"),
		FlatType: model.String("4 room"),
		MinPrice: model.Int(300000),
		MaxPrice: model.Int(600000),
	}
	b.addTown(f)
	b.addFlatType(f)
	b.addPriceBounds(f)

	want := "WHERE t.name = $1 AND hf.flat_type = $2 AND rt.resale_price >= $3 AND rt.resale_price <= $4"
	if got := b.where(); got != want {
		t.Errorf("where() = %q, want %q", got, want)
	}
	if len(b.args) != 4 {
		t.Fatalf("args = %v, want 4 values", b.args)
	}
	if b.args[0] != "TAMPINES" || b.args[1] != "4 ROOM" {
		t.Errorf("args = %v, want uppercased town and flat type first", b.args)
	}
}

func TestAddYearBoundsExactYearWins(t *testing.T) {
	var b whereBuilder
	f := &model.FilterSet{
		Year:      model.Int(2022),
		StartYear: model.Int(2019),
		EndYear:   model.Int(2023),
	}
	b.addYearBounds(f)

	want := "WHERE EXTRACT(YEAR FROM rt.contract_date) = $1"
	if got := b.where(); got != want {
		t.Errorf("where() = %q, want %q", got, want)
	}
	if len(b.args) != 1 || b.args[0] != 2022 {
		t.Errorf("args = %v, want [2022]", b.args)
	}
}

func TestAddYearBoundsRange(t *testing.T) {
	var b whereBuilder
	f := &model.FilterSet{
		StartYear: model.Int(2019),
		EndYear:   model.Int(2023),
	}
	b.addYearBounds(f)

	want := "WHERE EXTRACT(YEAR FROM rt.contract_date) >= $1 AND EXTRACT(YEAR FROM rt.contract_date) <= $2"
	if got := b.where(); got != want {
		t.Errorf("where() = %q, want %q", got, want)
	}
}

func TestNextArgContinuesNumbering(t *testing.T) {
	var b whereBuilder
	f := &model.FilterSet{Town: model.String("BEDOK")}
	b.addTown(f)
	if idx := b.nextArg(20); idx != 2 {
		t.Errorf("nextArg = %d, want 2", idx)
	}
	if len(b.args) != 2 || b.args[1] != 20 {
		t.Errorf("args = %v, want town then limit", b.args)
	}
}

func TestLimitOrDefault(t *testing.T) {
	if got := limitOrDefault(&model.FilterSet{}, 20); got != 20 {
		t.Errorf("limitOrDefault(no limit) = %d, want 20", got)
	}
	if got := limitOrDefault(&model.FilterSet{Limit: model.Int(5)}, 20); got != 5 {
		t.Errorf("limitOrDefault(5) = %d, want 5", got)
	}
	if got := limitOrDefault(&model.FilterSet{Limit: model.Int(0)}, 20); got != 20 {
		t.Errorf("limitOrDefault(0) = %d, want default 20", got)
	}
}
