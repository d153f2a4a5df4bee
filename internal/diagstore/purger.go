package diagstore

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// TTLPurger periodically sweeps expired diagnostic records from a store.
type TTLPurger struct {
	logger   *logrus.Logger
	store    Purger
	interval time.Duration
}

func NewTTLPurger(logger *logrus.Logger, store Purger, interval time.Duration) *TTLPurger {
	return &TTLPurger{
		logger:   logger,
		store:    store,
		interval: interval,
	}
}

func (p *TTLPurger) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logEntry := p.logger.WithField("component", "ttl_purger")
	logEntry.Info("Starting diagnostic record purger")

	for {
		select {
		case <-ticker.C:
			p.RunOnce(ctx)
		case <-ctx.Done():
			logEntry.Info("Stopping diagnostic record purger")
			return
		}
	}
}

// RunOnce performs a single sweep and returns the number of purged records.
func (p *TTLPurger) RunOnce(ctx context.Context) int64 {
	log := p.logger.WithFields(logrus.Fields{
		"component": "ttl_purger",
		"operation": "purge",
	})

	purged, err := p.store.PurgeExpired(ctx)
	if err != nil {
		log.WithError(err).Error("Diagnostic record purge failed")
		return 0
	}
	if purged > 0 {
		log.WithField("count", purged).Info("Purged expired diagnostic records")
	}
	return purged
}
