package aggregation

import (
	"sort"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/lookup"
)

// ComputeTotals sums every series over the axis, preserving the order of series.
func ComputeTotals(series []domain.SeriesKey, values *lookup.ValueLookup, axis domain.DateAxis) []domain.SeriesTotal {
	totals := make([]domain.SeriesTotal, len(series))
	for i, key := range series {
		totals[i] = domain.SeriesTotal{Key: key, Total: values.Total(key, axis)}
	}
	return totals
}

// SortTotals orders totals descending. Equal totals keep their relative order.
func SortTotals(totals []domain.SeriesTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
}

// RankSeries returns the topN series by total over the axis.
// Ties are broken by discovery order. topN larger than the series count keeps all.
func RankSeries(series []domain.SeriesKey, values *lookup.ValueLookup, axis domain.DateAxis, topN int) []domain.SeriesKey {
	if topN <= 0 || len(series) == 0 {
		return []domain.SeriesKey{}
	}

	totals := ComputeTotals(series, values, axis)
	SortTotals(totals)

	if topN > len(totals) {
		topN = len(totals)
	}

	ranked := make([]domain.SeriesKey, topN)
	for i := 0; i < topN; i++ {
		ranked[i] = totals[i].Key
	}
	return ranked
}
