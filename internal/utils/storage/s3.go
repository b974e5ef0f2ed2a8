package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker/v2"
)

var ErrStorageUnavailable = errors.New("image storage unavailable")

type (
	Storage interface {
		// UploadFile stores body under key and returns its public URL.
		UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error)
		DeleteFile(ctx context.Context, key string) error
	}

	awsS3 struct {
		client  *s3.Client
		bucket  string
		region  string
		breaker *gobreaker.CircuitBreaker[string]
	}
)

func NewAwsS3() Storage {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		logging.Error().Err(err).Msg("failed to load aws config")
	}

	return &awsS3{
		client:  s3.NewFromConfig(cfg),
		bucket:  utils.GetConfig("AWS_S3_BUCKET"),
		region:  region,
		breaker: newBreaker("s3-upload"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[string] {
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

func (s *awsS3) UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	url, err := s.breaker.Execute(func() (string, error) {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrStorageUnavailable
	}
	return url, err
}

func (s *awsS3) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
