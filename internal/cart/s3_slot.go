package cart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used by s3Slot.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Slot stores each key as an object under prefix in an S3 bucket.
type s3Slot struct {
	client s3API
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Slot creates an S3-backed slot using the default AWS credential chain.
func NewS3Slot(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Slot, error) {
	logger = logger.With().Str("component", "cart-s3-slot").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Debug().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 cart slot initialised")

	return newS3Slot(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Slot(client s3API, bucket, prefix string, logger zerolog.Logger) *s3Slot {
	return &s3Slot{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

func (s *s3Slot) objectKey(key string) string {
	return s.prefix + key + ".json"
}

// Load fetches the object for key.
func (s *s3Slot) Load(ctx context.Context, key string) ([]byte, error) {
	objectKey := s.objectKey(key)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrSlotEmpty
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", objectKey).
			Msg("failed to get cart object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, objectKey, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", objectKey, err)
	}

	return data, nil
}

// Save uploads data as the object for key.
func (s *s3Slot) Save(ctx context.Context, key string, data []byte) error {
	objectKey := s.objectKey(key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", objectKey).
			Msg("failed to put cart object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, objectKey, err)
	}

	return nil
}

// fallbackSlot reads from S3 first and falls back to the local file system.
// Writes always land locally and are mirrored to S3 when it is enabled.
type fallbackSlot struct {
	remote    Slot
	local     Slot
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackSlot combines a remote slot with a local one.
// If remote is nil or s3Enabled is false only the local slot is used.
func NewFallbackSlot(remote, local Slot, s3Enabled bool, logger zerolog.Logger) Slot {
	return &fallbackSlot{
		remote:    remote,
		local:     local,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "cart-fallback-slot").Logger(),
	}
}

func (s *fallbackSlot) useRemote() bool {
	return s.s3Enabled && s.remote != nil
}

// Load tries the remote slot, then the local one.
func (s *fallbackSlot) Load(ctx context.Context, key string) ([]byte, error) {
	if s.useRemote() {
		data, err := s.remote.Load(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrSlotEmpty) {
			s.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("failed to load from S3, falling back to local file system")
		}
	}

	return s.local.Load(ctx, key)
}

// Save writes locally, then mirrors to the remote slot.
// A remote failure is logged and does not fail the save.
func (s *fallbackSlot) Save(ctx context.Context, key string, data []byte) error {
	if err := s.local.Save(ctx, key, data); err != nil {
		return err
	}

	if s.useRemote() {
		if err := s.remote.Save(ctx, key, data); err != nil {
			s.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("failed to mirror cart to S3, local copy kept")
		}
	}

	return nil
}
