package auditlog

import "time"

const dayLayout = "2006-01-02"

// AuditEntry is one persisted entity change.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	TraceID    string    `json:"trace_id,omitempty"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	UserName   string    `json:"user_name,omitempty"`
	OldValues  string    `json:"old_values"`
	NewValues  string    `json:"new_values"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	EntityType string
	EntityID   string
	UserName   string
	Action     string
	TraceID    string
	Since      time.Time
	Limit      int
}

// DayCount is the number of entries recorded on one UTC day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TypeCount is the number of entries recorded for one entity type.
type TypeCount struct {
	EntityType string `json:"entity_type"`
	Count      int    `json:"count"`
}

// DailySeries expands sparse day counts into one value per UTC day from
// since through until, filling days without entries with zero.
func DailySeries(counts []DayCount, since, until time.Time) []float64 {
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}

	start := since.UTC().Truncate(24 * time.Hour)
	end := until.UTC().Truncate(24 * time.Hour)
	var series []float64
	for d := start; !d.After(end); d = d.Add(24 * time.Hour) {
		series = append(series, float64(byDay[d.Format(dayLayout)]))
	}
	return series
}
