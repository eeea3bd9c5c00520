package dashboard

import (
	"context"
	"sort"
)

// YearCatalog is the list of years with sales, fetched once at startup and
// never mutated afterwards. Readers need no locking.
type YearCatalog struct {
	years []int
}

// NewYearCatalog builds a catalog from explicit years, deduplicated and in
// ascending order.
func NewYearCatalog(years ...int) YearCatalog {
	seen := make(map[int]struct{}, len(years))
	out := make([]int, 0, len(years))
	for _, year := range years {
		if _, ok := seen[year]; ok || year <= 0 {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	sort.Ints(out)
	return YearCatalog{years: out}
}

// LoadYearCatalog derives the catalog from the yearly sales totals.
func LoadYearCatalog(ctx context.Context, repo SalesRepository) (YearCatalog, error) {
	records, err := repo.SalesByYear(ctx)
	if err != nil {
		return YearCatalog{}, err
	}
	years := make([]int, len(records))
	for i, record := range records {
		years[i] = record.Year
	}
	return NewYearCatalog(years...), nil
}

// Years returns a copy of the catalog years.
func (c YearCatalog) Years() []int {
	return append([]int(nil), c.years...)
}

// Default returns the preselected year, or zero when the catalog is empty.
func (c YearCatalog) Default() int {
	if len(c.years) == 0 {
		return 0
	}
	return c.years[0]
}

// Contains reports whether year is part of the catalog.
func (c YearCatalog) Contains(year int) bool {
	i := sort.SearchInts(c.years, year)
	return i < len(c.years) && c.years[i] == year
}
