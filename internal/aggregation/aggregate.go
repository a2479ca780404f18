// Package aggregation shapes raw records into the smoothed top-N chart matrix.
package aggregation

import (
	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/lookup"
	"uc-timelapse/internal/normalization"
)

// Aggregate turns raw records into the smoothed dense matrix and ranked series.
//
// Steps:
//  1. Discover series in first-encountered order
//  2. Build the value lookup (last write wins on duplicate keys)
//  3. Rank series by total over the axis, keep top N
//  4. Densify axis × ranked series, 0 where no record exists
//  5. Smooth each column with a trailing moving average
//
// Empty records or topN <= 0 yield an empty chart. A malformed date aborts
// the whole run with a *normalization.ParseError.
func Aggregate(records []domain.RawRecord, axis domain.DateAxis, topN int) (*domain.Chart, error) {
	if len(records) == 0 || topN <= 0 {
		return domain.EmptyChart(), nil
	}

	// 1-2. Discover series and build lookup
	series, values, err := BuildLookup(records)
	if err != nil {
		return nil, err
	}

	// 3. Rank
	ranked := RankSeries(series, values, axis, topN)

	// 4. Densify
	matrix := Densify(values, axis, ranked)

	// 5. Smooth
	return &domain.Chart{
		ChartData: Smooth(matrix, ranked, domain.SmoothingWindow),
		UniqueUCs: ranked,
	}, nil
}

// BuildLookup normalizes every record date and indexes values by (series, date).
// Returns the distinct series names in first-encountered order.
func BuildLookup(records []domain.RawRecord) ([]domain.SeriesKey, *lookup.ValueLookup, error) {
	values := lookup.NewValueLookup()
	seen := make(map[domain.SeriesKey]struct{})
	var series []domain.SeriesKey

	for _, r := range records {
		date, err := normalization.NormalizeDate(r.RawDate)
		if err != nil {
			return nil, nil, err
		}

		if _, ok := seen[r.SeriesName]; !ok {
			seen[r.SeriesName] = struct{}{}
			series = append(series, r.SeriesName)
		}

		values.Set(r.SeriesName, date, r.Value) // LAST(value) by input order
	}

	return series, values, nil
}

// Densify emits one row per axis date holding a value for every ranked series.
func Densify(values *lookup.ValueLookup, axis domain.DateAxis, ranked []domain.SeriesKey) []domain.DataPoint {
	matrix := make([]domain.DataPoint, len(axis))
	for i, date := range axis {
		row := make(map[domain.SeriesKey]float64, len(ranked))
		for _, key := range ranked {
			row[key] = values.Get(key, date)
		}
		matrix[i] = domain.DataPoint{Date: date, Values: row}
	}
	return matrix
}
