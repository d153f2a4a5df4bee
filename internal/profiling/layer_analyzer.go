package profiling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Checkpoint names, in the order the derived breakdown reads them.
const (
	CheckpointStart         = "start"
	CheckpointMiddlewareEnd = "middleware_end"
	CheckpointPermissionEnd = "permission_end"
	CheckpointQuerysetEnd   = "queryset_end"
	CheckpointSerializerEnd = "serializer_end"
	CheckpointEnd           = "end"
)

const (
	BottleneckIO  = "io"
	BottleneckCPU = "cpu"
)

// Thresholds holds the phase budgets recommendations are generated against.
type Thresholds struct {
	SlowPermission time.Duration
	SlowQueryset   time.Duration
	SlowSerializer time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SlowPermission: 100 * time.Millisecond,
		SlowQueryset:   200 * time.Millisecond,
		SlowSerializer: 100 * time.Millisecond,
	}
}

// Breakdown attributes elapsed time to the four instrumented phases.
type Breakdown struct {
	MiddlewareTimeMs float64 `json:"middleware_time_ms"`
	PermissionTimeMs float64 `json:"permission_time_ms"`
	QuerysetTimeMs   float64 `json:"queryset_time_ms"`
	SerializerTimeMs float64 `json:"serializer_time_ms"`
}

// Profile is the diagnostic record produced for one request.
type Profile struct {
	RequestID        string    `json:"request_id"`
	TotalTimeMs      float64   `json:"total_time_ms"`
	Breakdown        Breakdown `json:"breakdown"`
	BottleneckType   string    `json:"bottleneck_type"`
	BottleneckLayer  string    `json:"bottleneck_layer"`
	QueryCount       int       `json:"query_count"`
	TotalQueryTimeMs float64   `json:"total_query_time_ms"`
	NPlusOneDetected bool      `json:"n_plus_one_detected"`
	Recommendations  []string  `json:"recommendations"`
}

// LayerAnalyzer records named checkpoints over one request's lifecycle and
// attributes elapsed time to the phases between them. Like QueryAnalyzer it
// is owned by a single in-flight request; it performs no locking and no I/O
// of its own.
type LayerAnalyzer struct {
	requestID   string
	checkpoints map[string]time.Time
	queries     *QueryAnalyzer
	thresholds  Thresholds
	now         func() time.Time
}

func NewLayerAnalyzer(requestID string) *LayerAnalyzer {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &LayerAnalyzer{
		requestID:   requestID,
		checkpoints: make(map[string]time.Time),
		queries:     NewQueryAnalyzer(),
		thresholds:  DefaultThresholds(),
		now:         time.Now,
	}
}

func (la *LayerAnalyzer) RequestID() string {
	return la.requestID
}

// SetThresholds overrides the phase budgets recommendations are generated
// against.
func (la *LayerAnalyzer) SetThresholds(t Thresholds) {
	la.thresholds = t
}

// Queries exposes the embedded capture log so the data layer can record
// access events into it.
func (la *LayerAnalyzer) Queries() *QueryAnalyzer {
	return la.queries
}

// Checkpoint records the current time under name. Recording the same name
// twice keeps the later time.
func (la *LayerAnalyzer) Checkpoint(name string) {
	la.checkpoints[name] = la.now()
}

// Start marks the request beginning and opens the query capture window.
func (la *LayerAnalyzer) Start() {
	la.Checkpoint(CheckpointStart)
	la.queries.Start()
}

func (la *LayerAnalyzer) EndMiddleware() {
	la.Checkpoint(CheckpointMiddlewareEnd)
}

func (la *LayerAnalyzer) EndPermission() {
	la.Checkpoint(CheckpointPermissionEnd)
}

func (la *LayerAnalyzer) EndQueryset() {
	la.Checkpoint(CheckpointQuerysetEnd)
}

func (la *LayerAnalyzer) EndSerializer() {
	la.Checkpoint(CheckpointSerializerEnd)
}

// Stop marks the request end and closes the query capture window.
func (la *LayerAnalyzer) Stop() {
	la.Checkpoint(CheckpointEnd)
	la.queries.Stop()
}

// Breakdown derives the per-phase report. Checkpoints are read in fixed
// order; a missing checkpoint inherits the nearest preceding time, so its
// phase reads as zero. Phase durations clamp at zero even if the host clock
// moved backward mid-request.
func (la *LayerAnalyzer) Breakdown() Profile {
	start := la.checkpoints[CheckpointStart]
	middlewareEnd := la.checkpointOr(CheckpointMiddlewareEnd, start)
	permissionEnd := la.checkpointOr(CheckpointPermissionEnd, middlewareEnd)
	querysetEnd := la.checkpointOr(CheckpointQuerysetEnd, permissionEnd)
	serializerEnd := la.checkpointOr(CheckpointSerializerEnd, querysetEnd)
	end := la.checkpointOr(CheckpointEnd, serializerEnd)

	breakdown := Breakdown{
		MiddlewareTimeMs: phaseMs(start, middlewareEnd),
		PermissionTimeMs: phaseMs(middlewareEnd, permissionEnd),
		QuerysetTimeMs:   phaseMs(permissionEnd, querysetEnd),
		SerializerTimeMs: phaseMs(querysetEnd, serializerEnd),
	}

	layer, kind := classifyBottleneck(breakdown)
	report := la.queries.Analyze()

	return Profile{
		RequestID:        la.requestID,
		TotalTimeMs:      phaseMs(start, end),
		Breakdown:        breakdown,
		BottleneckType:   kind,
		BottleneckLayer:  layer,
		QueryCount:       report.TotalQueries,
		TotalQueryTimeMs: report.TotalTimeMs,
		NPlusOneDetected: report.NPlusOneDetected,
		Recommendations:  la.recommendations(breakdown, report),
	}
}

func (la *LayerAnalyzer) checkpointOr(name string, fallback time.Time) time.Time {
	if t, ok := la.checkpoints[name]; ok {
		return t
	}
	return fallback
}

// classifyBottleneck picks the slowest phase, earliest phase winning ties.
// Permission and queryset phases sit on the data-access path and count as
// io; middleware and serialization count as cpu.
func classifyBottleneck(b Breakdown) (layer, kind string) {
	phases := []struct {
		name   string
		timeMs float64
		kind   string
	}{
		{"middleware", b.MiddlewareTimeMs, BottleneckCPU},
		{"permission", b.PermissionTimeMs, BottleneckIO},
		{"queryset", b.QuerysetTimeMs, BottleneckIO},
		{"serializer", b.SerializerTimeMs, BottleneckCPU},
	}

	top := phases[0]
	for _, p := range phases[1:] {
		if p.timeMs > top.timeMs {
			top = p
		}
	}
	return top.name, top.kind
}

func (la *LayerAnalyzer) recommendations(b Breakdown, report QueryReport) []string {
	recs := []string{}

	if b.PermissionTimeMs > toMs(la.thresholds.SlowPermission) {
		recs = append(recs, "Permission check is slow - consider using EXISTS instead of COUNT(*)")
	}
	if report.NPlusOneDetected {
		recs = append(recs, fmt.Sprintf("N+1 detected - %d queries executed", report.TotalQueries))
	}
	if b.QuerysetTimeMs > toMs(la.thresholds.SlowQueryset) {
		recs = append(recs, "Queryset execution slow - check for missing indexes")
	}
	if b.SerializerTimeMs > toMs(la.thresholds.SlowSerializer) {
		recs = append(recs, "Serialization slow - consider batch-fetching related records")
	}

	return recs
}

func phaseMs(from, to time.Time) float64 {
	d := to.Sub(from)
	if d < 0 {
		d = 0
	}
	return roundMs(d)
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
