// Package storage wraps the S3-compatible blob store holding post images and avatars.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"quietspace/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore is the interface services use to upload and delete objects.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

// Storage is a minio-backed BlobStore.
type Storage struct {
	cfg    *config.Config
	client *minio.Client
}

// New connects to the configured S3-compatible endpoint.
func New(cfg *config.Config) (*Storage, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.S3Endpoint, "https://"), "http://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Storage{cfg: cfg, client: cl}, nil
}

// EnsureBuckets creates the posts and avatars buckets when missing.
func (s *Storage) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.PostsBucket, s.cfg.AvatarsBucket} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Upload stores data under bucket/key and returns the public URL of the object.
func (s *Storage) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.PublicURL(bucket, key), nil
}

// Remove deletes the object at bucket/key.
func (s *Storage) Remove(ctx context.Context, bucket, key string) error {
	return s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL builds the externally reachable URL for an object.
func (s *Storage) PublicURL(bucket, key string) string {
	base := s.cfg.S3PublicURL
	if base == "" {
		scheme := "http"
		if s.cfg.S3UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, strings.TrimPrefix(strings.TrimPrefix(s.cfg.S3Endpoint, "https://"), "http://"))
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, key)
}

// KeyFromURL extracts the object key from a public URL previously returned by Upload.
// Returns false when the URL does not reference the given bucket.
func KeyFromURL(rawURL, bucket string) (string, bool) {
	marker := "/" + bucket + "/"
	idx := strings.Index(rawURL, marker)
	if idx < 0 {
		return "", false
	}
	key := rawURL[idx+len(marker):]
	if key == "" {
		return "", false
	}
	return key, true
}
