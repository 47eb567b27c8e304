// Package metrics folds a stream of messages into time-bucketed counts and
// word frequency tables.
package metrics

import (
	"iter"
	"time"

	"github.com/raesene/messenger-stats/pkg/models"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// Aggregator accumulates ConversationStats one message at a time. Partial
// aggregators built over disjoint message sets can be combined with Merge
// in any order.
type Aggregator struct {
	userName  string
	otherName string

	hours    map[int]int
	days     map[string]int
	months   map[string]int
	dayNames map[string]int

	mine  int
	other int
	total int
	first time.Time
	last  time.Time
}

// NewAggregator creates an aggregator that attributes messages by exact
// sender name equality. No case folding or trimming is applied, so a name
// that differs from the stored sender string is never counted.
func NewAggregator(userName, otherName string) *Aggregator {
	return &Aggregator{
		userName:  userName,
		otherName: otherName,
		hours:     make(map[int]int),
		days:      make(map[string]int),
		months:    make(map[string]int),
		dayNames:  make(map[string]int),
	}
}

// Add folds one message into the counters
func (a *Aggregator) Add(msg models.Message) {
	ts := msg.Timestamp

	a.hours[ts.Hour()]++
	a.days[ts.Format(DayLayout)]++
	a.months[ts.Format(MonthLayout)]++
	a.dayNames[ts.Weekday().String()]++

	if a.total == 0 || ts.Before(a.first) {
		a.first = ts
	}
	if a.total == 0 || ts.After(a.last) {
		a.last = ts
	}
	a.total++

	switch msg.Sender {
	case a.userName:
		a.mine++
	case a.otherName:
		a.other++
	}
}

// Merge adds the counters of b into a. Both must use the same names.
func (a *Aggregator) Merge(b *Aggregator) {
	if b == nil || b.total == 0 {
		return
	}

	for k, v := range b.hours {
		a.hours[k] += v
	}
	for k, v := range b.days {
		a.days[k] += v
	}
	for k, v := range b.months {
		a.months[k] += v
	}
	for k, v := range b.dayNames {
		a.dayNames[k] += v
	}

	if a.total == 0 || b.first.Before(a.first) {
		a.first = b.first
	}
	if a.total == 0 || b.last.After(a.last) {
		a.last = b.last
	}

	a.mine += b.mine
	a.other += b.other
	a.total += b.total
}

// Stats returns a snapshot of the counters. Later calls to Add do not
// affect a returned value.
func (a *Aggregator) Stats() *models.ConversationStats {
	stats := &models.ConversationStats{
		HourCount:         copyMap(a.hours),
		DayCount:          copyMap(a.days),
		MonthCount:        copyMap(a.months),
		DayNameCount:      copyMap(a.dayNames),
		MyMessageCount:    a.mine,
		OtherMessageCount: a.other,
		TotalMessages:     a.total,
	}
	if a.total > 0 {
		first, last := a.first, a.last
		stats.FirstDate = &first
		stats.LastDate = &last
	}
	return stats
}

// ComputeBasicStats aggregates every message of seq in a single pass. The
// first error yielded by seq aborts the computation.
func ComputeBasicStats(seq iter.Seq2[models.Message, error], userName, otherName string) (*models.ConversationStats, error) {
	agg := NewAggregator(userName, otherName)
	for msg, err := range seq {
		if err != nil {
			return nil, err
		}
		agg.Add(msg)
	}
	return agg.Stats(), nil
}

func copyMap[K comparable](m map[K]int) map[K]int {
	out := make(map[K]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
