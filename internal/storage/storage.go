// Package storage wraps the object store used for post media and
// profile photo uploads.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Object describes a stored blob: the key it lives under and the URL
// clients use to fetch it.
type Object struct {
	Key string
	URL string
}

// Store is the interface the media service uses; it exists so handler
// tests can substitute a stub for a live object store.
type Store interface {
	Upload(ctx context.Context, prefix, filename, contentType string, data []byte) (*Object, error)
	Remove(ctx context.Context, key string) error
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New connects to the object store and verifies the bucket exists,
// creating it if necessary.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.StorageEndpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	s := &minioStore{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimSuffix(cfg.StoragePublicURL, "/"),
	}
	if s.publicURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		s.publicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, s.bucket)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *minioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores data under a collision-free key derived from prefix and
// the original filename's extension.
func (s *minioStore) Upload(ctx context.Context, prefix, filename, contentType string, data []byte) (*Object, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	return &Object{
		Key: key,
		URL: s.publicURL + "/" + key,
	}, nil
}

func (s *minioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
