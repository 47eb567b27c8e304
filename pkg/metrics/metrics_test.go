package metrics

import (
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raesene/messenger-stats/pkg/models"
)

func seqOf(msgs ...models.Message) iter.Seq2[models.Message, error] {
	return func(yield func(models.Message, error) bool) {
		for _, m := range msgs {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func msg(sender string, ms int64, content ...string) models.Message {
	m := models.Message{
		Timestamp:         time.UnixMilli(ms).UTC(),
		Sender:            sender,
		ConversationTitle: "Alice Smith",
	}
	if len(content) > 0 {
		c := content[0]
		m.Content = &c
	}
	return m
}

func sum[K comparable](m map[K]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func TestComputeBasicStatsScenarioA(t *testing.T) {
	stats, err := ComputeBasicStats(seqOf(
		msg("Alice Smith", 1700000000000, "hello world"),
		msg("You", 1700003600000, "hi there"),
	), "You", "Alice Smith")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MyMessageCount)
	assert.Equal(t, 1, stats.OtherMessageCount)
	assert.Equal(t, 2, stats.TotalMessages)

	// 2023-11-14 22:13:20 UTC and one hour later
	assert.Equal(t, map[int]int{22: 1, 23: 1}, stats.HourCount)
	assert.Equal(t, map[string]int{"2023-11-14": 2}, stats.DayCount)
	assert.Equal(t, map[string]int{"2023-11": 2}, stats.MonthCount)
	assert.Equal(t, map[string]int{"Tuesday": 2}, stats.DayNameCount)

	require.NotNil(t, stats.FirstDate)
	require.NotNil(t, stats.LastDate)
	assert.Equal(t, time.Hour, stats.LastDate.Sub(*stats.FirstDate))
}

func TestComputeBasicStatsBucketSums(t *testing.T) {
	var msgs []models.Message
	base := int64(1600000000000)
	for i := 0; i < 500; i++ {
		sender := []string{"You", "Alice Smith", "Carol"}[i%3]
		// irregular steps over roughly a year
		msgs = append(msgs, msg(sender, base+int64(i*i)*250_000))
	}

	stats, err := ComputeBasicStats(seqOf(msgs...), "You", "Alice Smith")
	require.NoError(t, err)

	assert.Equal(t, len(msgs), sum(stats.HourCount))
	assert.Equal(t, len(msgs), sum(stats.DayCount))
	assert.Equal(t, len(msgs), sum(stats.MonthCount))
	assert.Equal(t, len(msgs), sum(stats.DayNameCount))
	assert.Equal(t, len(msgs), stats.TotalMessages)

	// Carol is counted in the buckets only
	assert.Equal(t, 167, stats.MyMessageCount)
	assert.Equal(t, 167, stats.OtherMessageCount)
	assert.LessOrEqual(t, stats.MyMessageCount+stats.OtherMessageCount, stats.TotalMessages)
}

func TestComputeBasicStatsExactNames(t *testing.T) {
	stats, err := ComputeBasicStats(seqOf(
		msg("you", 1700000000000),
		msg("You ", 1700000000000),
		msg("alice smith", 1700000000000),
		msg("You", 1700000000000),
	), "You", "Alice Smith")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MyMessageCount)
	assert.Equal(t, 0, stats.OtherMessageCount)
	assert.Equal(t, 4, stats.TotalMessages)
}

func TestComputeBasicStatsSameNameCountsOnce(t *testing.T) {
	stats, err := ComputeBasicStats(seqOf(msg("Sam", 1700000000000)), "Sam", "Sam")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MyMessageCount+stats.OtherMessageCount)
}

func TestComputeBasicStatsEmpty(t *testing.T) {
	stats, err := ComputeBasicStats(seqOf(), "You", "Alice Smith")
	require.NoError(t, err)

	assert.Empty(t, stats.HourCount)
	assert.Empty(t, stats.DayCount)
	assert.Empty(t, stats.MonthCount)
	assert.Empty(t, stats.DayNameCount)
	assert.Zero(t, stats.MyMessageCount)
	assert.Zero(t, stats.OtherMessageCount)
	assert.Nil(t, stats.FirstDate)
	assert.Nil(t, stats.LastDate)

	_, ok := stats.SpanDays()
	assert.False(t, ok)
}

func TestComputeBasicStatsOrderIndependent(t *testing.T) {
	a := msg("You", 1600000000000)
	b := msg("Alice Smith", 1700000000000)
	c := msg("You", 1500000000000)

	forward, err := ComputeBasicStats(seqOf(a, b, c), "You", "Alice Smith")
	require.NoError(t, err)
	backward, err := ComputeBasicStats(seqOf(c, b, a), "You", "Alice Smith")
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
	assert.Equal(t, int64(1500000000000), forward.FirstDate.UnixMilli())
	assert.Equal(t, int64(1700000000000), forward.LastDate.UnixMilli())

	days, ok := forward.SpanDays()
	require.True(t, ok)
	assert.Equal(t, 2314, days)
}

func TestComputeBasicStatsError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(models.Message, error) bool) {
		if !yield(msg("You", 1700000000000), nil) {
			return
		}
		yield(models.Message{}, boom)
	}

	stats, err := ComputeBasicStats(seq, "You", "Alice Smith")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, stats)
}

func TestAggregatorMerge(t *testing.T) {
	msgs := []models.Message{
		msg("You", 1600000000000),
		msg("Alice Smith", 1650000000000),
		msg("You", 1700000000000),
		msg("Carol", 1550000000000),
		msg("Alice Smith", 1750000000000),
	}

	whole := NewAggregator("You", "Alice Smith")
	for _, m := range msgs {
		whole.Add(m)
	}

	left := NewAggregator("You", "Alice Smith")
	right := NewAggregator("You", "Alice Smith")
	empty := NewAggregator("You", "Alice Smith")
	for i, m := range msgs {
		if i%2 == 0 {
			left.Add(m)
		} else {
			right.Add(m)
		}
	}

	merged := NewAggregator("You", "Alice Smith")
	merged.Merge(right)
	merged.Merge(empty)
	merged.Merge(left)
	merged.Merge(nil)

	assert.Equal(t, whole.Stats(), merged.Stats())
}

func TestStatsSnapshot(t *testing.T) {
	agg := NewAggregator("You", "Alice Smith")
	agg.Add(msg("You", 1700000000000))
	snap := agg.Stats()

	agg.Add(msg("You", 1800000000000))

	assert.Equal(t, 1, snap.TotalMessages)
	assert.Equal(t, 1, sum(snap.DayCount))
	assert.Equal(t, int64(1700000000000), snap.LastDate.UnixMilli())
}
