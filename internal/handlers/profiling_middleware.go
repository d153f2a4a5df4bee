package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sdko-org/callview-api/internal/collector"
	"github.com/sdko-org/callview-api/internal/diagstore"
	"github.com/sdko-org/callview-api/internal/profiling"
	"github.com/sirupsen/logrus"
)

// profileFlag is the opt-in signal: without it a request pays nothing beyond
// this one query-parameter check.
const profileFlag = "_profile"

type bufferingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (brw *bufferingResponseWriter) WriteHeader(code int) {
	brw.statusCode = code
}

func (brw *bufferingResponseWriter) Write(b []byte) (int, error) {
	return brw.body.Write(b)
}

// ProfilingMiddleware instruments opted-in requests. It owns the request's
// LayerAnalyzer end to end: created here, handed down via context, stopped
// here. The response is buffered so the finished profile can be embedded in
// JSON object bodies and summarized in headers. The profile is persisted
// best-effort; N+1-positive profiles are additionally shipped to the
// collector when one is configured.
func ProfilingMiddleware(logger *logrus.Logger, store diagstore.Store, col *collector.Client, ttl time.Duration) func(http.Handler) http.Handler {
	logEntry := logger.WithField("component", "profiling_middleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get(profileFlag) != "true" {
				next.ServeHTTP(w, r)
				return
			}

			analyzer := profiling.NewLayerAnalyzer("")
			analyzer.Start()

			brw := &bufferingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(brw, r.WithContext(profiling.WithAnalyzer(r.Context(), analyzer)))

			analyzer.Stop()
			profile := analyzer.Breakdown()

			if store != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				if err := analyzer.Persist(ctx, store, ttl); err != nil {
					logEntry.WithError(err).Warn("Failed to persist profile")
				}
				cancel()
			}

			if col != nil && col.Enabled() && profile.NPlusOneDetected {
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if err := col.Report(ctx, profile); err != nil {
						logEntry.WithError(err).Warn("Failed to ship diagnostic report")
					}
				}()
			}

			body := brw.body.Bytes()
			if injected, ok := injectProfile(body, profile); ok {
				body = injected
			}

			header := w.Header()
			header.Del("Content-Length")
			header.Set("X-Request-ID", profile.RequestID)
			header.Set("X-Query-Count", strconv.Itoa(profile.QueryCount))
			header.Set("X-Total-Time-Ms", strconv.FormatFloat(profile.TotalTimeMs, 'f', 2, 64))

			w.WriteHeader(brw.statusCode)
			if _, err := w.Write(body); err != nil {
				logEntry.WithError(err).Warn("Failed to write profiled response")
			}
		})
	}
}

// injectProfile adds a _profiling member to JSON object bodies. Non-object
// bodies pass through untouched.
func injectProfile(body []byte, profile profiling.Profile) ([]byte, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return nil, false
	}
	fields["_profiling"] = encoded

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, false
	}
	return merged, true
}
