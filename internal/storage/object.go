package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"adboard/api/internal/config"
)

// ObjectStore implements BlobStore on an S3-compatible bucket. Blob
// paths keep the same "/images/{category}/{filename}" shape; the part
// after the URL prefix is the object key.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	region    string
	urlPrefix string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	prefix := cfg.URLPrefix
	if prefix == "" {
		prefix = "/images"
	}

	return &ObjectStore{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		urlPrefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

func (s *ObjectStore) EnsureDirs(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *ObjectStore) Write(ctx context.Context, category, filename string, data []byte) (string, error) {
	key := category + "/" + filename
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

func (s *ObjectStore) Read(ctx context.Context, relPath string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(relPath), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

func (s *ObjectStore) Delete(ctx context.Context, relPath string) error {
	// RemoveObject succeeds for missing keys, matching the idempotent
	// delete contract of the local driver.
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(relPath), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *ObjectStore) List(ctx context.Context) ([]string, error) {
	var paths []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		paths = append(paths, s.urlPrefix+"/"+obj.Key)
	}
	return paths, nil
}

func (s *ObjectStore) ModTime(ctx context.Context, relPath string) (time.Time, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key(relPath), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return time.Time{}, fmt.Errorf("stat object: %w", err)
	}
	return info.LastModified, nil
}

func (s *ObjectStore) key(relPath string) string {
	p := strings.TrimPrefix(relPath, s.urlPrefix)
	return strings.TrimPrefix(p, "/")
}
