package profiling

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptyCapture(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Start()
	qa.Stop()

	report := qa.Analyze()
	assert.Equal(t, 0, report.TotalQueries)
	assert.Equal(t, 0.0, report.TotalTimeMs)
	assert.False(t, report.NPlusOneDetected)
	assert.Equal(t, 0, report.DuplicateGroups)
	assert.Empty(t, report.TopPatterns)
}

func TestAnalyzeWithoutStart(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Record("SELECT 1", time.Millisecond)

	report := qa.Analyze()
	assert.Equal(t, 0, report.TotalQueries)
}

func TestNPlusOneThresholdBoundary(t *testing.T) {
	record := func(n int) QueryReport {
		qa := NewQueryAnalyzer()
		qa.Start()
		for i := 0; i < n; i++ {
			qa.Record(fmt.Sprintf("SELECT * FROM call WHERE customer_id = %d", i), time.Millisecond)
		}
		qa.Stop()
		return qa.Analyze()
	}

	assert.False(t, record(5).NPlusOneDetected)
	assert.True(t, record(6).NPlusOneDetected)
}

func TestSetThresholdOverridesDefault(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.SetThreshold(2)
	qa.Start()
	for i := 0; i < 3; i++ {
		qa.Record("SELECT * FROM customer WHERE id = 1", time.Millisecond)
	}
	qa.Stop()

	assert.True(t, qa.Analyze().NPlusOneDetected)

	qa.SetThreshold(0)
	assert.Equal(t, 2, qa.threshold)
}

func TestAnalyzeRepeatedShape(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Start()
	for i := 0; i < 7; i++ {
		qa.Record(fmt.Sprintf("SELECT * FROM call WHERE customer_id = %d", i), 2*time.Millisecond)
	}
	qa.Record("SELECT name FROM workspace WHERE id = 'abc'", 50*time.Millisecond)
	qa.Stop()

	report := qa.Analyze()
	assert.Equal(t, 8, report.TotalQueries)
	assert.Equal(t, 1, report.DuplicateGroups)
	assert.True(t, report.NPlusOneDetected)

	require.NotEmpty(t, report.TopPatterns)
	top := report.TopPatterns[0]
	assert.Equal(t, 7, top.Count)
	assert.Equal(t, 14.0, top.TimeMs)
	assert.Equal(t, "SELECT * FROM call WHERE customer_id = 0", top.Sample)
}

func TestAnalyzeOrdersByCountThenDuration(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Start()
	// One slow single statement, one cheap repeated shape.
	qa.Record("SELECT pg_sleep(1)", 900*time.Millisecond)
	qa.Record("SELECT * FROM customer WHERE id = 1", time.Millisecond)
	qa.Record("SELECT * FROM customer WHERE id = 2", time.Millisecond)
	qa.Stop()

	report := qa.Analyze()
	require.Len(t, report.TopPatterns, 2)
	assert.Equal(t, 2, report.TopPatterns[0].Count)
	assert.Equal(t, 1, report.TopPatterns[1].Count)
}

func TestAnalyzeCapsTopPatterns(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Start()
	for i := 0; i < 8; i++ {
		qa.Record(fmt.Sprintf("SELECT * FROM table_%c WHERE id = 1", 'a'+rune(i)), time.Millisecond)
	}
	qa.Stop()

	assert.Len(t, qa.Analyze().TopPatterns, 5)
}

func TestRecordClampsNegativeDurations(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Start()
	qa.Record("SELECT 1", -time.Second)
	qa.Stop()

	report := qa.Analyze()
	assert.Equal(t, 1, report.TotalQueries)
	assert.Equal(t, 0.0, report.TotalTimeMs)
}

func TestRecordAfterStopIsDropped(t *testing.T) {
	qa := NewQueryAnalyzer()
	qa.Start()
	qa.Record("SELECT 1", time.Millisecond)
	qa.Stop()
	qa.Record("SELECT 2", time.Millisecond)

	assert.Equal(t, 1, qa.Analyze().TotalQueries)
}

func TestSampleTextTruncation(t *testing.T) {
	long := "SELECT * FROM customer WHERE name IN (" + strings.Repeat("'x',", 100) + "'y')"
	require.Greater(t, len(long), sampleTextLimit)

	qa := NewQueryAnalyzer()
	qa.Start()
	qa.Record(long, time.Millisecond)
	qa.Stop()

	report := qa.Analyze()
	require.Len(t, report.TopPatterns, 1)
	sample := report.TopPatterns[0].Sample
	assert.Len(t, sample, sampleTextLimit+3)
	assert.True(t, strings.HasSuffix(sample, "..."))
}
