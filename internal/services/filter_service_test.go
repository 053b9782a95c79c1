package services

import (
	"reflect"
	"testing"

	domain "github.com/bazarlivre/vitrine/internal/domain"
)

func filterFixture() []domain.Item {
	promo := 45.0
	return []domain.Item{
		{ID: 1, Name: "Bicicleta Caloi", Category: "Esporte", Condition: "Usado", Price: 350},
		{ID: 2, Name: "Ventilador", Category: "Eletrodomésticos", Condition: "Bom estado", Price: 60, PromotionalPrice: &promo},
		{ID: 3, Name: "Mesa de jantar", Category: "Móveis", Condition: "Seminovo", Price: 120},
		{ID: 4, Name: "Bicicleta infantil", Category: "Esporte", Condition: "Novo", Price: 48},
	}
}

func itemIDs(items []domain.Item) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestFilterEngineApply(t *testing.T) {
	engine := NewFilterEngine()
	items := filterFixture()

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		wantIDs  []int
	}{
		{"empty criteria keeps everything in order", domain.FilterCriteria{}, []int{1, 2, 3, 4}},
		{"name is case-insensitive substring", domain.FilterCriteria{Name: "bicicleta"}, []int{1, 4}},
		{"partial name matches", domain.FilterCriteria{Name: "vENT"}, []int{2}},
		{"category is exact", domain.FilterCriteria{Category: "Esporte"}, []int{1, 4}},
		{"condition is exact", domain.FilterCriteria{Condition: "Seminovo"}, []int{3}},
		{"price uses effective price", domain.FilterCriteria{Price: domain.BracketUpTo50}, []int{2, 4}},
		{"price bracket 100-300", domain.FilterCriteria{Price: domain.Bracket100To300}, []int{3}},
		{"price bracket above 300", domain.FilterCriteria{Price: domain.BracketAbove300}, []int{1}},
		{"unknown bracket applies no constraint", domain.FilterCriteria{Price: domain.PriceBracket("bogus")}, []int{1, 2, 3, 4}},
		{"criteria combine conjunctively", domain.FilterCriteria{Name: "bicicleta", Category: "Esporte", Price: domain.BracketUpTo50}, []int{4}},
		{"no matches yields empty slice", domain.FilterCriteria{Name: "geladeira"}, []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := itemIDs(engine.Apply(items, tc.criteria))
			if !reflect.DeepEqual(got, tc.wantIDs) {
				t.Fatalf("Apply ids = %v, want %v", got, tc.wantIDs)
			}
		})
	}
}

func TestFilterEngineApplyIsPure(t *testing.T) {
	engine := NewFilterEngine()
	items := filterFixture()
	before := itemIDs(items)

	first := engine.Apply(items, domain.FilterCriteria{Category: "Esporte"})
	second := engine.Apply(items, domain.FilterCriteria{Category: "Esporte"})

	if !reflect.DeepEqual(itemIDs(first), itemIDs(second)) {
		t.Fatal("identical inputs produced different outputs")
	}
	if !reflect.DeepEqual(itemIDs(items), before) {
		t.Fatal("input slice was mutated")
	}
}

func TestFilterEngineApplyEmptyInput(t *testing.T) {
	engine := NewFilterEngine()
	got := engine.Apply(nil, domain.FilterCriteria{Name: "x"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
