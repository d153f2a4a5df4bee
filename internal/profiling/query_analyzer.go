package profiling

import (
	"math"
	"sort"
	"time"
)

const (
	// DefaultNPlusOneThreshold is the number of same-shape statements above
	// which a capture is flagged as an N+1 pattern.
	DefaultNPlusOneThreshold = 5

	sampleTextLimit = 200
	topPatternLimit = 5
)

// AccessEvent is one captured data-access call.
type AccessEvent struct {
	Text     string
	Duration time.Duration
}

// PatternGroup aggregates all captured statements sharing one normalized
// shape.
type PatternGroup struct {
	Sample string  `json:"sql"`
	TimeMs float64 `json:"time_ms"`
	Count  int     `json:"count"`
}

// QueryReport summarizes one capture window.
type QueryReport struct {
	TotalQueries     int            `json:"total_queries"`
	TotalTimeMs      float64        `json:"total_time_ms"`
	TopPatterns      []PatternGroup `json:"slowest_queries"`
	NPlusOneDetected bool           `json:"n_plus_one_detected"`
	DuplicateGroups  int            `json:"duplicate_queries"`
}

// QueryAnalyzer captures the ordered sequence of data-access calls issued
// during one request and derives a duplication/latency report from it. An
// instance belongs to exactly one in-flight request and must not be shared.
type QueryAnalyzer struct {
	events    []AccessEvent
	threshold int
	startedAt time.Time
	stoppedAt time.Time
	capturing bool
}

func NewQueryAnalyzer() *QueryAnalyzer {
	return &QueryAnalyzer{threshold: DefaultNPlusOneThreshold}
}

// SetThreshold overrides the same-shape count above which a capture is
// flagged. Non-positive values keep the current threshold.
func (qa *QueryAnalyzer) SetThreshold(n int) {
	if n > 0 {
		qa.threshold = n
	}
}

// Start resets the capture log and opens the capture window.
func (qa *QueryAnalyzer) Start() {
	qa.events = nil
	qa.startedAt = time.Now()
	qa.stoppedAt = time.Time{}
	qa.capturing = true
}

// Record appends one access event. Events outside the capture window are
// dropped; negative durations clamp to zero.
func (qa *QueryAnalyzer) Record(text string, duration time.Duration) {
	if !qa.capturing {
		return
	}
	if duration < 0 {
		duration = 0
	}
	qa.events = append(qa.events, AccessEvent{Text: text, Duration: duration})
}

// Stop closes the capture window; the log is frozen afterwards.
func (qa *QueryAnalyzer) Stop() {
	qa.stoppedAt = time.Now()
	qa.capturing = false
}

// Analyze groups the captured events by normalized shape. It is a pure read:
// calling it repeatedly on the same log yields the same report. An empty log
// yields a zero-valued report.
func (qa *QueryAnalyzer) Analyze() QueryReport {
	report := QueryReport{TopPatterns: []PatternGroup{}}
	if len(qa.events) == 0 {
		return report
	}

	var total time.Duration
	groups := make(map[string]*PatternGroup)
	durations := make(map[string]time.Duration)
	for _, ev := range qa.events {
		total += ev.Duration
		shape := NormalizePattern(ev.Text)
		g, ok := groups[shape]
		if !ok {
			g = &PatternGroup{Sample: truncateSample(ev.Text)}
			groups[shape] = g
		}
		g.Count++
		durations[shape] += ev.Duration
	}

	patterns := make([]PatternGroup, 0, len(groups))
	for shape, g := range groups {
		g.TimeMs = roundMs(durations[shape])
		if g.Count > 1 {
			report.DuplicateGroups++
		}
		if g.Count > qa.threshold {
			report.NPlusOneDetected = true
		}
		patterns = append(patterns, *g)
	}

	// Repetition is the actionable signal, so order by count before cost.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].TimeMs > patterns[j].TimeMs
	})
	if len(patterns) > topPatternLimit {
		patterns = patterns[:topPatternLimit]
	}

	report.TotalQueries = len(qa.events)
	report.TotalTimeMs = roundMs(total)
	report.TopPatterns = patterns
	return report
}

func truncateSample(text string) string {
	if len(text) > sampleTextLimit {
		return text[:sampleTextLimit] + "..."
	}
	return text
}

func roundMs(d time.Duration) float64 {
	return math.Round(float64(d)/float64(time.Millisecond)*100) / 100
}
