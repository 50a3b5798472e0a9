package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/matching"
)

// ObjectAPI is the subset of the S3 client used for artifact blobs
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps the latest artifact as a single JSON object
type S3Store struct {
	client ObjectAPI
	bucket string
	key    string
}

// Ensure S3Store implements matching.ArtifactStore
var _ matching.ArtifactStore = (*S3Store)(nil)

// NewS3Store creates a store writing to bucket/key
func NewS3Store(client ObjectAPI, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key}
}

// NewS3StoreFromConfig creates a store from the configured S3 client
func NewS3StoreFromConfig(cfg *config.S3Config) *S3Store {
	return NewS3Store(cfg.Client, cfg.BucketName, cfg.ObjectKey)
}

// Save uploads the encoded artifact, replacing the previous object
func (s *S3Store) Save(ctx context.Context, artifact *matching.ModelArtifact) error {
	data, err := matching.MarshalArtifact(artifact)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact to s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// Load downloads and decodes the stored artifact
func (s *S3Store) Load(ctx context.Context) (*matching.ModelArtifact, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, matching.ErrNoArtifact
		}
		return nil, fmt.Errorf("failed to download artifact from s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}
	return matching.UnmarshalArtifact(data)
}
