package results

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures the object-storage mirror.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3ConfigFromEnv reads GACCIA_S3_* variables. Returns ok=false when no
// endpoint is configured, which disables mirroring.
func S3ConfigFromEnv() (S3Config, bool) {
	cfg := S3Config{
		Endpoint:  os.Getenv("GACCIA_S3_ENDPOINT"),
		Region:    os.Getenv("GACCIA_S3_REGION"),
		AccessKey: os.Getenv("GACCIA_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("GACCIA_S3_SECRET_KEY"),
		Bucket:    os.Getenv("GACCIA_S3_BUCKET"),
		UseSSL:    os.Getenv("GACCIA_S3_USE_SSL") == "true",
	}
	return cfg, strings.TrimSpace(cfg.Endpoint) != ""
}

// S3Mirror replicates session artifacts to an S3-compatible bucket under
// <session-id>/<path> keys. The bucket is created lazily on first use.
type S3Mirror struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewS3Mirror(cfg S3Config) (*S3Mirror, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Mirror{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (s *S3Mirror) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("mirror is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put uploads one artifact.
func (s *S3Mirror) Put(ctx context.Context, sessionID, path string, content []byte) error {
	if s == nil {
		return fmt.Errorf("mirror is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	path = strings.TrimSpace(path)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if path == "" {
		return fmt.Errorf("path is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if content == nil {
		content = []byte{}
	}

	key := objectKey(sessionID, path)
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(path),
	})
	return err
}

// List returns the paths stored for a session, relative to its prefix.
func (s *S3Mirror) List(ctx context.Context, sessionID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("mirror is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	prefix := strings.TrimSuffix(sessionID, "/") + "/"
	paths := make([]string, 0, 16)
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		paths = append(paths, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(paths)
	return paths, nil
}

// GetURL returns a presigned download URL valid for one hour.
func (s *S3Mirror) GetURL(ctx context.Context, sessionID, path string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("mirror is nil")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey(sessionID, path), time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func objectKey(sessionID, path string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(path), "/")
	return strings.TrimSpace(sessionID) + "/" + normalized
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".md"):
		return "text/markdown"
	case strings.HasSuffix(path, ".txt"):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
