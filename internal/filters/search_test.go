package filters

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		input    string
		expected *Size
	}{
		{"16x25x1", &Size{16, 25, 1}},
		{"16×25×1", &Size{16, 25, 1}},
		{"16 x 25 x 1", &Size{16, 25, 1}},
		{"20x20x4 MERV 11", &Size{20, 20, 4}},
		{"16x25", nil},
		{"", nil},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.expected, ParseSize(c.input)); diff != "" {
			t.Errorf("ParseSize(%q) mismatch (-want +got):\n%s", c.input, diff)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `100\% \_off\\`, EscapeLike(`100% _off\`))
}

func TestSizeClause(t *testing.T) {
	clause, args := SizeClause(Size{16, 25, 1})
	require.Contains(t, clause, " OR ")
	require.Equal(t, []any{16, 25, 1, 25, 16, 1}, args)
}

func TestSearchClause(t *testing.T) {
	clause, args := SearchClause("", nil)
	require.Equal(t, "1 = 1", clause)
	require.Empty(t, args)

	clause, args = SearchClause(" 50% ", &Size{16, 25, 1})
	require.Contains(t, clause, "filter_aliases")
	require.Len(t, args, 11)
	require.Equal(t, `%50\%%`, args[0])
}

func TestSort(t *testing.T) {
	merv := func(v int) *int { return &v }
	upc := "0123"
	base := Filter{NominalW: 16, NominalH: 25, Thickness: 1}

	withFields := func(id, brand string, m *int, name, sku string) Filter {
		f := base
		f.Id, f.Brand, f.Merv, f.ProductName, f.Sku = id, brand, m, name, sku
		return f
	}

	t.Run("exact sku match first", func(t *testing.T) {
		sorted := Sort([]Filter{
			withFields("1", "B-Brand", merv(11), "Beta", "SKU-2"),
			withFields("2", "A-Brand", merv(11), "Alpha", "SKU-1"),
		}, "sku-2")
		require.Equal(t, "1", sorted[0].Id)
	})

	t.Run("exact upc match first", func(t *testing.T) {
		matching := withFields("2", "Zed", nil, "Zeta", "SKU-9")
		matching.Upc = &upc
		sorted := Sort([]Filter{withFields("1", "Alpha", merv(8), "Echo", "SKU-1"), matching}, "0123")
		require.Equal(t, "2", sorted[0].Id)
	})

	t.Run("brand then merv then name", func(t *testing.T) {
		sorted := Sort([]Filter{
			withFields("1", "Bravo", merv(13), "Zeta", "SKU-9"),
			withFields("2", "alpha", merv(8), "Echo", "SKU-8"),
			withFields("3", "Alpha", merv(11), "Delta", "SKU-7"),
			withFields("4", "Alpha", nil, "Able", "SKU-6"),
		}, "")
		ids := []string{}
		for _, f := range sorted {
			ids = append(ids, f.Id)
		}
		require.Equal(t, []string{"2", "3", "4", "1"}, ids)
	})
}
