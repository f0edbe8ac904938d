package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hostbuddy/api/internal/config"
	"github.com/hostbuddy/api/internal/metrics"
)

const defaultExtension = "jpg"

var (
	ErrForeignURL = errors.New("url does not point into the image bucket")
	ErrEmptyKey   = errors.New("object key is empty")
)

// ObjectClient is the subset of the S3 API the blob store needs.
// *minio.Client satisfies it.
type ObjectClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucket, policy string) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

type BlobStore struct {
	client     ObjectClient
	bucket     string
	region     string
	publicBase string
	recorder   metrics.Recorder
	newID      func() uuid.UUID
}

func NewMinioClient(conf *config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New -> %w", err)
	}

	return client, nil
}

func NewBlobStore(client ObjectClient, conf *config.StorageConfig, recorder metrics.Recorder) *BlobStore {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &BlobStore{
		client:     client,
		bucket:     conf.Bucket,
		region:     conf.Region,
		publicBase: publicBase(conf),
		recorder:   recorder,
		newID:      uuid.New,
	}
}

func publicBase(conf *config.StorageConfig) string {
	endpoint := strings.TrimRight(conf.PublicEndpoint, "/")
	if endpoint == "" {
		endpoint = conf.Endpoint
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http"
		if conf.UseSSL {
			scheme = "https"
		}
		endpoint = scheme + "://" + endpoint
	}

	return endpoint + "/" + conf.Bucket + "/"
}

// EnsureBucket creates the bucket on first start and makes its objects
// publicly readable, since event images are linked straight from clients.
func (s *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s.client.BucketExists -> %w", err)
	}
	if exists {
		return nil
	}

	if err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("s.client.MakeBucket -> %w", err)
	}

	policy, err := publicReadPolicy(s.bucket)
	if err != nil {
		return err
	}
	if err = s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("s.client.SetBucketPolicy -> %w", err)
	}

	return nil
}

func publicReadPolicy(bucket string) (string, error) {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{{
			"Sid":       "PublicReadGetObject",
			"Effect":    "Allow",
			"Principal": map[string]any{"AWS": []string{"*"}},
			"Action":    []string{"s3:GetObject"},
			"Resource":  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return string(raw), nil
}

// ObjectKey builds folder/<uuid>.<ext>. Only the extension of filename is
// used, so client names never reach the key.
func ObjectKey(folder, filename string, id uuid.UUID) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = defaultExtension
	}

	folder = strings.Trim(folder, "/")
	if folder == "" {
		return id.String() + "." + ext
	}

	return folder + "/" + id.String() + "." + ext
}

// URL is the public address of key.
func (s *BlobStore) URL(key string) string {
	return s.publicBase + key
}

// Upload stores the payload and returns its public URL.
func (s *BlobStore) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := ObjectKey(folder, filename, s.newID())
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	s.recorder.RecordBlobOp("upload", err)
	if err != nil {
		return "", fmt.Errorf("s.client.PutObject -> %w", err)
	}

	return s.URL(key), nil
}

// KeyFromURL recovers the object key from a URL this store issued. URLs
// addressing the bucket through another host are accepted as long as the
// path starts with the bucket name.
func (s *BlobStore) KeyFromURL(rawURL string) (string, error) {
	var key string
	if strings.HasPrefix(rawURL, s.publicBase) {
		key = strings.TrimPrefix(rawURL, s.publicBase)
	} else {
		u, err := url.Parse(rawURL)
		if err != nil || u.Host == "" {
			return "", ErrForeignURL
		}
		prefix := "/" + s.bucket + "/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", ErrForeignURL
		}
		key = strings.TrimPrefix(u.Path, prefix)
	}

	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", ErrEmptyKey
	}
	if key != path.Clean(key) || strings.HasPrefix(key, "../") {
		return "", ErrForeignURL
	}

	return key, nil
}

// Owns reports whether rawURL points at an object in this store's bucket.
func (s *BlobStore) Owns(rawURL string) bool {
	_, err := s.KeyFromURL(rawURL)
	return err == nil
}

func (s *BlobStore) Delete(ctx context.Context, rawURL string) error {
	key, err := s.KeyFromURL(rawURL)
	if err != nil {
		return err
	}

	err = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	s.recorder.RecordBlobOp("delete", err)
	if err != nil {
		return fmt.Errorf("s.client.RemoveObject -> %w", err)
	}

	return nil
}
