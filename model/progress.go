package model

import (
	"sort"
	"time"
)

// ProgressPoint one day of the cumulative progress (S-curve) series
type ProgressPoint struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	Planned    int     `json:"planned"`
	Cumulative int     `json:"cumulative"`
	Percent    float64 `json:"percent"`
}

// ProgressSeries the cumulative plans-per-day series that feeds the
// S-curve chart. Days are grouped in the server timezone; the grouping
// is done here instead of SQL to stay dialect-neutral.
func (store *Store) ProgressSeries() ([]ProgressPoint, error) {
	rows, err := store.newQuery(store.planTable()).
		Select("start_date").
		OrderBy("start_date", "asc").
		Get()
	if err != nil {
		return nil, err
	}

	perDay := map[string]int{}
	for _, row := range rows {
		perDay[progressDay(toTime(row.Get("start_date")))]++
	}

	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	total := len(rows)
	series := []ProgressPoint{}
	cumulative := 0
	for _, day := range days {
		cumulative += perDay[day]
		point := ProgressPoint{Date: day, Planned: perDay[day], Cumulative: cumulative}
		if total > 0 {
			point.Percent = float64(cumulative) / float64(total) * 100
		}
		series = append(series, point)
	}
	return series, nil
}

// progressDay normalize a timestamp to its day key
func progressDay(value time.Time) string {
	return value.Format("2006-01-02")
}
