package round

import (
	"fmt"
	"strings"
	"time"
)

// Event categories.
const (
	CategoryGrid    = "grid"
	CategorySearch  = "search"
	CategoryRetrace = "retrace"
	CategoryRound   = "round"
)

// EventEntry is one recorded event of a round.
type EventEntry struct {
	Round    int
	At       time.Duration // scheduler time
	Category string        // grid, search, retrace, round
	Key      string        // specific event name within the category
	Value    string        // human-readable detail
	NumVal   float64       // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[R=003 t=01.240s] search  succeeded        path=7 cost=88
func (e EventEntry) String() string {
	return fmt.Sprintf("[R=%03d t=%06.3fs] %-8s %-16s %s",
		e.Round, e.At.Seconds(), e.Category, e.Key, e.Value)
}

// EventLog collects structured round events. With a positive limit only the
// most recent entries are kept.
type EventLog struct {
	entries []EventEntry
	verbose bool
	limit   int
}

// NewEventLog creates an EventLog. If verbose is true, per-step entries
// (each relaxation and path mark) are also recorded.
func NewEventLog(verbose bool, limit int) *EventLog {
	return &EventLog{verbose: verbose, limit: limit}
}

// Add records a new entry.
func (el *EventLog) Add(round int, at time.Duration, category, key, value string, numVal float64) {
	if el == nil {
		return
	}
	el.entries = append(el.entries, EventEntry{
		Round:    round,
		At:       at,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	if el.limit > 0 && len(el.entries) > el.limit {
		drop := len(el.entries) - el.limit
		el.entries = append(el.entries[:0], el.entries[drop:]...)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (el *EventLog) AddVerbose(round int, at time.Duration, category, key, value string, numVal float64) {
	if el == nil || !el.verbose {
		return
	}
	el.Add(round, at, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []EventEntry {
	if el == nil {
		return nil
	}
	return el.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []EventEntry {
	var out []EventEntry
	for _, e := range el.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterRound returns entries of a single round.
func (el *EventLog) FilterRound(round int) []EventEntry {
	var out []EventEntry
	for _, e := range el.Entries() {
		if e.Round == round {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (el *EventLog) CountCategory(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (EventEntry, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return EventEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
