// Package chart turns conversation stats into bar chart series and serves
// them as a local web page.
package chart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/raesene/messenger-stats/pkg/metrics"
	"github.com/raesene/messenger-stats/pkg/models"
)

type Metric string

const (
	Monthly Metric = "monthly"
	Daily   Metric = "daily"
	Hourly  Metric = "hourly"
	Weekday Metric = "weekday"
)

// Metrics lists the supported chart metrics
var Metrics = []Metric{Monthly, Daily, Hourly, Weekday}

// ParseMetric accepts a metric name in any case
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q (want one of monthly, daily, hourly, weekday)", s)
}

// Bar is one labelled bar of a chart
type Bar struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Series is the data behind a single figure
type Series struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

// Max returns the largest bar count
func (s Series) Max() int {
	highest := 0
	for _, b := range s.Bars {
		if b.Count > highest {
			highest = b.Count
		}
	}
	return highest
}

// Build creates the series for a metric. Daily and monthly series are
// filled with zero bars from the earliest bucket up to now so gaps show;
// hourly always has 24 bars and weekday seven, Sunday first.
func Build(metric Metric, stats *models.ConversationStats, personA, personB string, now time.Time) (Series, error) {
	s := Series{YLabel: "Message Count"}

	switch metric {
	case Monthly:
		s.Title = fmt.Sprintf("Monthly message count between %s and %s", personA, personB)
		s.XLabel = "Month"
		s.Bars = fillDates(stats.MonthCount, metrics.MonthLayout, now, func(t time.Time) time.Time {
			return t.AddDate(0, 1, 0)
		})
	case Daily:
		s.Title = fmt.Sprintf("Daily message count between %s and %s", personA, personB)
		s.XLabel = "Day"
		s.Bars = fillDates(stats.DayCount, metrics.DayLayout, now, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 1)
		})
	case Hourly:
		s.Title = fmt.Sprintf("Hourly message count between %s and %s", personA, personB)
		s.XLabel = "Hour of day"
		for h := 0; h < 24; h++ {
			s.Bars = append(s.Bars, Bar{Label: fmt.Sprintf("%02d:00", h), Count: stats.HourCount[h]})
		}
	case Weekday:
		s.Title = fmt.Sprintf("Day of week message count between %s and %s", personA, personB)
		s.XLabel = "Day of week"
		for d := time.Sunday; d <= time.Saturday; d++ {
			s.Bars = append(s.Bars, Bar{Label: d.String(), Count: stats.DayNameCount[d.String()]})
		}
	default:
		return Series{}, fmt.Errorf("unknown metric %q", metric)
	}

	return s, nil
}

// fillDates returns the buckets in key order with zero bars added for
// every missing step between the earliest key and now. Keys that do not
// parse with layout are kept as they are, without filling.
func fillDates(counts map[string]int, layout string, now time.Time, next func(time.Time) time.Time) []Bar {
	filled := make(map[string]int, len(counts))
	keys := make([]string, 0, len(counts))
	for k, v := range counts {
		filled[k] = v
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	start, err := time.Parse(layout, keys[0])
	if err == nil {
		end := now.Format(layout)
		for t := start; t.Format(layout) <= end; t = next(t) {
			key := t.Format(layout)
			if _, ok := filled[key]; !ok {
				filled[key] = 0
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
	}

	bars := make([]Bar, 0, len(keys))
	for _, k := range keys {
		bars = append(bars, Bar{Label: k, Count: filled[k]})
	}
	return bars
}
