package metrics

import (
	"iter"
	"sort"
	"strings"
	"unicode"

	"github.com/raesene/messenger-stats/pkg/models"
)

// DefaultWordLimit is used when a non-positive limit is requested
const DefaultWordLimit = 50

// WordCounter counts case-folded, purely alphabetic tokens that are not
// stopwords. Contractions, hyphenated words, numbers and URLs never count.
type WordCounter struct {
	stop   map[string]struct{}
	counts map[string]int
	// first-seen order, used to break ties
	order []string
}

func NewWordCounter(stopwords []string) *WordCounter {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &WordCounter{
		stop:   stop,
		counts: make(map[string]int),
	}
}

// Add tokenizes the message content by whitespace
func (c *WordCounter) Add(msg models.Message) {
	if msg.Content == nil {
		return
	}
	for _, raw := range strings.Fields(*msg.Content) {
		word := strings.ToLower(raw)
		if !isAlpha(word) {
			continue
		}
		if _, ok := c.stop[word]; ok {
			continue
		}
		if c.counts[word] == 0 {
			c.order = append(c.order, word)
		}
		c.counts[word]++
	}
}

// Top returns up to limit words by descending count. Equal counts keep the
// order in which the words were first seen.
func (c *WordCounter) Top(limit int) []models.WordCount {
	if limit <= 0 {
		limit = DefaultWordLimit
	}

	table := make([]models.WordCount, 0, len(c.order))
	for _, w := range c.order {
		table = append(table, models.WordCount{Word: w, Count: c.counts[w]})
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})

	if len(table) > limit {
		table = table[:limit]
	}
	return table
}

// MostCommonWords counts the words of every message in seq
func MostCommonWords(seq iter.Seq2[models.Message, error], stopwords []string, limit int) ([]models.WordCount, error) {
	counter := NewWordCounter(stopwords)
	for msg, err := range seq {
		if err != nil {
			return nil, err
		}
		counter.Add(msg)
	}
	return counter.Top(limit), nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
