// Package listing implements the pure filtering applied to the professional
// marketplace listing. Inputs are never mutated: the same slices back the
// counts panel and other read-only consumers.
package listing

import (
	"strings"

	"pro_market/internal/core"
)

// CategoryAll is the sentinel disabling the category filter
const CategoryAll = "All"

// Categories is the canonical skill navbar, CategoryAll first
var Categories = []string{
	CategoryAll,
	"Plumber",
	"Painter",
	"Mechanic",
	"Electrician",
	"Carpenter",
	"Mason",
}

// Filter returns the entries visible to clients, further restricted to the
// selected category unless it is CategoryAll. Unverified or suspended
// professionals are always excluded. Relative order is preserved.
func Filter(pros []core.Professional, selectedCategory string) []core.Professional {
	out := make([]core.Professional, 0, len(pros))
	for _, pro := range pros {
		if !pro.Visible() {
			continue
		}
		if selectedCategory != CategoryAll && !hasSkill(pro, selectedCategory) {
			continue
		}
		out = append(out, pro)
	}
	return out
}

// hasSkill reports case-insensitive membership of the category in the skill set
func hasSkill(pro core.Professional, category string) bool {
	for _, skill := range pro.Skills {
		if strings.EqualFold(skill, category) {
			return true
		}
	}
	return false
}

// Search restricts a listing to entries whose name or email contains the
// term, case-insensitively. An empty term returns a copy of the input.
func Search(pros []core.Professional, term string) []core.Professional {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]core.Professional, 0, len(pros))
	for _, pro := range pros {
		if needle == "" ||
			strings.Contains(strings.ToLower(pro.Name), needle) ||
			strings.Contains(strings.ToLower(pro.Email), needle) {
			out = append(out, pro)
		}
	}
	return out
}

// Census counts visible professionals per canonical category, feeding the
// summary panel next to the listing.
func Census(pros []core.Professional) map[string]int {
	counts := make(map[string]int, len(Categories))
	for _, category := range Categories {
		if category == CategoryAll {
			counts[category] = len(Filter(pros, CategoryAll))
			continue
		}
		counts[category] = len(Filter(pros, category))
	}
	return counts
}
