package services

import (
	"strings"

	domain "github.com/bazarlivre/vitrine/internal/domain"
)

type filterEngine struct{}

// NewFilterEngine constructs the pure filter engine.
func NewFilterEngine() FilterEngine {
	return filterEngine{}
}

// Apply narrows items to those satisfying every non-empty criteria field,
// preserving relative order. The function is pure: identical inputs always
// yield identical output and the input slice is never mutated.
func (filterEngine) Apply(items []domain.Item, criteria domain.FilterCriteria) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if matchesCriteria(item, criteria) {
			out = append(out, item)
		}
	}
	return out
}

func matchesCriteria(item domain.Item, criteria domain.FilterCriteria) bool {
	if criteria.Name != "" && !containsFold(item.Name, criteria.Name) {
		return false
	}
	if criteria.Category != "" && item.Category != criteria.Category {
		return false
	}
	if criteria.Condition != "" && item.Condition != criteria.Condition {
		return false
	}
	return domain.InBracket(item.EffectivePrice(), criteria.Price)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
