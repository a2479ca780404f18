package pipeline

import (
	"context"
	"fmt"
	"time"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
)

// fixtureSeries are the demo use cases with a base daily value and a weekly swing.
var fixtureSeries = []struct {
	name  string
	base  float64
	swing float64
}{
	{"Payments", 40, 12},
	{"Lending", 32, 9},
	{"Gaming", 25, 15},
	{"Identity", 18, 4},
	{"Supply Chain", 14, 6},
	{"Ticketing", 11, 5},
	{"Loyalty", 9, 3},
	{"Insurance", 7, 4},
	{"Carbon Credits", 5, 2},
	{"Voting", 3, 2},
	{"Real Estate", 2, 1},
	{"Music Rights", 1, 1},
}

// FixtureDays is the number of consecutive days covered by FixtureRecords.
const FixtureDays = 60

// FixtureRecords returns a deterministic demo document starting at start.
// Every series reports on most days; some days are skipped so densification has gaps to fill.
func FixtureRecords(start time.Time) []domain.RawRecord {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var records []domain.RawRecord
	for day := 0; day < FixtureDays; day++ {
		d := start.AddDate(0, 0, day)
		raw := fmt.Sprintf("%d/%d/%d", int(d.Month()), d.Day(), d.Year())

		for i, s := range fixtureSeries {
			// skip every (i+3)th day per series
			if (day+i)%(i+3) == 0 {
				continue
			}
			phase := float64((day + i) % 7)
			value := s.base + s.swing*(phase-3)/3 + float64(day)*s.base/100
			records = append(records, domain.RawRecord{
				SeriesName: s.name,
				RawDate:    raw,
				Value:      float64(int(value*100)) / 100,
			})
		}
	}
	return records
}

// LoadFixtures populates store with the demo document.
func LoadFixtures(ctx context.Context, store storage.RecordStore, start time.Time) error {
	if err := store.InsertBulk(ctx, FixtureRecords(start)); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	return nil
}
