package diagstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sdko-org/callview-api/internal/config"
	"github.com/sdko-org/callview-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// S3Store keeps diagnostic payloads as S3 objects while tracking expiry in
// the profile_records table. Useful when diagnostic payloads are large or
// the database should stay lean.
type S3Store struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	cfg      *config.Config
	db       *gorm.DB
	log      *logrus.Entry
}

func NewS3Store(logger *logrus.Logger, cfg *config.Config, db *gorm.DB) *S3Store {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.S3Region),
		Credentials:      credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}

	if cfg.S3Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.S3Endpoint)
	}

	sess := session.Must(session.NewSession(awsConfig))

	return &S3Store{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		cfg:      cfg,
		db:       db,
		log:      logger.WithField("component", "diagstore_s3"),
	}
}

func (s *S3Store) objectKey(key string) string {
	return "diagnostics/" + key
}

func (s *S3Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.S3Bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}

	record := models.ProfileRecord{
		Key:       key,
		StoredAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save profile record: %w", err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.ProfileRecord
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile record lookup failed: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.delete(ctx, key); err != nil {
			s.log.WithError(err).Warn("Failed to delete expired profile record")
		}
		return nil, ErrNotFound
	}

	resp, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 fetch failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (s *S3Store) delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if dbErr := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.ProfileRecord{}).Error; dbErr != nil {
		s.log.WithError(dbErr).Warn("Failed to delete profile record row")
	}
	return err
}

func (s *S3Store) PurgeExpired(ctx context.Context) (int64, error) {
	var expired []models.ProfileRecord
	if err := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Find(&expired).Error; err != nil {
		return 0, fmt.Errorf("profile record purge query failed: %w", err)
	}

	var purged int64
	for _, record := range expired {
		if err := s.delete(ctx, record.Key); err != nil {
			s.log.WithFields(logrus.Fields{"key": record.Key, "error": err}).Error("Failed to delete expired profile object")
			continue
		}
		purged++
	}
	return purged, nil
}
