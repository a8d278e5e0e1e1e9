package logger

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// AggregatedEntry is one deduplicated error with occurrence counts.
type AggregatedEntry struct {
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// Collector aggregates error-level logs so a run can report which pairs
// were excluded and why without flooding the log stream. Entries are
// deduplicated on message plus field values.
type Collector struct {
	mutex  sync.RWMutex
	logMap map[string]*AggregatedEntry
}

func NewCollector() *Collector {
	return &Collector{logMap: make(map[string]*AggregatedEntry)}
}

// Add records one occurrence of an error message.
func (c *Collector) Add(msg string, fields map[string]interface{}) {
	key := entryKey(msg, fields)
	now := time.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if e, ok := c.logMap[key]; ok {
		e.Count++
		e.LastSeen = now
		return
	}
	c.logMap[key] = &AggregatedEntry{
		Message:   msg,
		Fields:    fields,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
}

// Snapshot returns the aggregated entries ordered by first occurrence
// and resets the collector for the next run.
func (c *Collector) Snapshot() []AggregatedEntry {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	out := make([]AggregatedEntry, 0, len(c.logMap))
	for _, e := range c.logMap {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstSeen.Before(out[j].FirstSeen) })

	c.logMap = make(map[string]*AggregatedEntry)
	return out
}

// Len returns the number of distinct entries currently held.
func (c *Collector) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.logMap)
}

func entryKey(msg string, fields map[string]interface{}) string {
	b, err := json.Marshal(fields)
	if err != nil {
		b = []byte(fmt.Sprintf("%v", fields))
	}
	sum := sha256.Sum256(append([]byte(msg), b...))
	return fmt.Sprintf("%x", sum[:8])
}
