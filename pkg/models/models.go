package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Message represents one chat message read from a conversation export
type Message struct {
	Timestamp         time.Time `db:"date"`
	Sender            string    `db:"sender"`
	ConversationTitle string    `db:"conversation"`
	// Content is nil for photos, reactions, calls and other non-text messages
	Content *string `db:"content"`
}

// Text returns the message body, or "" when the message has none
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// ExportFile represents one message_N.json file of a conversation folder
type ExportFile struct {
	Title    OptionalString `json:"title"`
	Messages []RawMessage   `json:"messages"`
}

// RawMessage represents a message entry as stored on disk. Every field may
// be absent or carry an unexpected JSON type.
type RawMessage struct {
	SenderName  OptionalString `json:"sender_name"`
	TimestampMS OptionalInt64  `json:"timestamp_ms"`
	Content     OptionalString `json:"content"`
}

// OptionalString decodes a JSON string. Set is false when the field is
// absent, null or not a string; decoding never fails on a type mismatch.
type OptionalString struct {
	Value string
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	*o = OptionalString{}
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*o = OptionalString{Value: s, Set: true}
	return nil
}

// OptionalInt64 decodes a JSON number, truncating fractional values.
// Set is false when the field is absent, null or not a number.
type OptionalInt64 struct {
	Value int64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	*o = OptionalInt64{}
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*o = OptionalInt64{Value: i, Set: true}
		return nil
	}
	if f, err := n.Float64(); err == nil {
		*o = OptionalInt64{Value: int64(f), Set: true}
	}
	return nil
}

// ConversationStats holds the aggregates computed for one conversation
type ConversationStats struct {
	HourCount         map[int]int    `json:"hour_count"`
	DayCount          map[string]int `json:"day_count"`
	MonthCount        map[string]int `json:"month_count"`
	DayNameCount      map[string]int `json:"day_name_count"`
	MyMessageCount    int            `json:"my_message_count"`
	OtherMessageCount int            `json:"other_message_count"`
	TotalMessages     int            `json:"total_messages"`
	FirstDate         *time.Time     `json:"first_date,omitempty"`
	LastDate          *time.Time     `json:"last_date,omitempty"`
}

// SpanDays returns the number of whole days between the first and last
// message. ok is false when no messages were aggregated.
func (s *ConversationStats) SpanDays() (days int, ok bool) {
	if s.FirstDate == nil || s.LastDate == nil {
		return 0, false
	}
	return int(s.LastDate.Sub(*s.FirstDate).Hours() / 24), true
}

// WordCount is one row of a word frequency table
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SearchResult represents a search hit from an ingested conversation database
type SearchResult struct {
	ID       int     `db:"id"`
	Message          // embedded message fields
	Filename string  `db:"filename"`
	Rank     float64 `db:"rank"`
	Snippet  string  `db:"snippet"`
}

// SortByTimestamp orders messages chronologically. The reader makes no
// ordering promise across files, so anything order-sensitive calls this.
func SortByTimestamp(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}
