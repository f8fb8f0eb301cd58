package filters

import (
	"sort"
	"strings"
)

const missingMervRank = 9999

// Sort orders search results: exact sku/upc matches first, then by
// brand, merv, product name and sku
func Sort(filters []Filter, query string) []Filter {
	target := strings.TrimSpace(query)
	output := make([]Filter, len(filters))
	copy(output, filters)

	rank := func(f Filter) int {
		if target == "" {
			return 1
		}
		if strings.EqualFold(f.Sku, target) || (f.Upc != nil && strings.EqualFold(*f.Upc, target)) {
			return 0
		}
		return 1
	}
	merv := func(f Filter) int {
		if f.Merv == nil {
			return missingMervRank
		}
		return *f.Merv
	}

	sort.SliceStable(output, func(i, j int) bool {
		a, b := output[i], output[j]
		if rankA, rankB := rank(a), rank(b); rankA != rankB {
			return rankA < rankB
		}
		if brandA, brandB := strings.ToLower(a.Brand), strings.ToLower(b.Brand); brandA != brandB {
			return brandA < brandB
		}
		if mervA, mervB := merv(a), merv(b); mervA != mervB {
			return mervA < mervB
		}
		if nameA, nameB := strings.ToLower(a.ProductName), strings.ToLower(b.ProductName); nameA != nameB {
			return nameA < nameB
		}
		return strings.ToLower(a.Sku) < strings.ToLower(b.Sku)
	})
	return output
}
