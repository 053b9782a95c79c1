package domain

import "fmt"

// InBracket reports whether an effective price falls inside the given bracket.
// The brackets partition the non-negative range: every price belongs to exactly
// one of the four. Unknown bracket tokens apply no constraint.
func InBracket(price float64, bracket PriceBracket) bool {
	switch bracket {
	case BracketUpTo50:
		return price <= 50
	case Bracket50To100:
		return price > 50 && price <= 100
	case Bracket100To300:
		return price > 100 && price <= 300
	case BracketAbove300:
		return price > 300
	default:
		return true
	}
}

// Brackets lists the fixed price brackets in display order.
func Brackets() []PriceBracket {
	return []PriceBracket{BracketUpTo50, Bracket50To100, Bracket100To300, BracketAbove300}
}

// FormatPrice renders a price with exactly two decimal places, prefixed with
// the currency symbol used across the storefront.
func FormatPrice(value float64) string {
	return fmt.Sprintf("R$ %.2f", value)
}
