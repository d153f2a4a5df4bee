package database

import (
	"context"
	"time"

	"github.com/sdko-org/callview-api/internal/profiling"
	gormlogger "gorm.io/gorm/logger"
)

// QueryRecorder is a gorm logger that feeds every executed statement into
// the profiling capture for the current request, when one is active. All
// other logging behavior is delegated to the wrapped logger.
type QueryRecorder struct {
	base gormlogger.Interface
}

func NewQueryRecorder(base gormlogger.Interface) *QueryRecorder {
	return &QueryRecorder{base: base}
}

func (r *QueryRecorder) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &QueryRecorder{base: r.base.LogMode(level)}
}

func (r *QueryRecorder) Info(ctx context.Context, msg string, args ...interface{}) {
	r.base.Info(ctx, msg, args...)
}

func (r *QueryRecorder) Warn(ctx context.Context, msg string, args ...interface{}) {
	r.base.Warn(ctx, msg, args...)
}

func (r *QueryRecorder) Error(ctx context.Context, msg string, args ...interface{}) {
	r.base.Error(ctx, msg, args...)
}

func (r *QueryRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if la, ok := profiling.AnalyzerFromContext(ctx); ok {
		sql, _ := fc()
		la.Queries().Record(sql, time.Since(begin))
	}
	r.base.Trace(ctx, begin, fc, err)
}
