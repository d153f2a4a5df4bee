package diagstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sdko-org/callview-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostgresStore keeps diagnostic payloads inline in the profile_records
// table.
type PostgresStore struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewPostgresStore(logger *logrus.Logger, db *gorm.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: logger.WithField("component", "diagstore_postgres"),
	}
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	record := models.ProfileRecord{
		Key:       key,
		Payload:   value,
		StoredAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save profile record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.ProfileRecord
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile record lookup failed: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
			s.log.WithError(err).Warn("Failed to delete expired profile record")
		}
		return nil, ErrNotFound
	}

	return record.Payload, nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.ProfileRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("profile record purge failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
