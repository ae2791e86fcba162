package uploadserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage persists uploaded images and returns their public URL.
type Storage interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// LocalStorage writes images to a directory that the server exposes under
// its URL prefix.
type LocalStorage struct {
	dir     string
	prefix  string
	baseURL string
}

// DefaultLocalPrefix is the route serving locally stored images.
const DefaultLocalPrefix = "/uploads"

// NewLocalStorage creates the directory if needed. baseURL is prepended to
// the returned URLs; leave it empty for site-relative URLs.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{dir: dir, prefix: DefaultLocalPrefix, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the storage directory.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Prefix returns the route prefix the files are served under.
func (s *LocalStorage) Prefix() string {
	return s.prefix
}

// Save writes data to the storage directory.
func (s *LocalStorage) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return s.baseURL + path.Join(s.prefix, name), nil
}

// MinIOConfig configures the S3-compatible storage backend.
type MinIOConfig struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"accessKey" yaml:"accessKey"`
	SecretKey string `json:"secretKey" yaml:"secretKey"`
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	UseSSL    bool   `json:"useSSL,omitempty" yaml:"useSSL,omitempty"`
	// PublicURL is the base URL objects are reachable at. Defaults to the
	// endpoint followed by the bucket.
	PublicURL string `json:"publicURL,omitempty" yaml:"publicURL,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Validate checks the config.
func (c MinIOConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("minio endpoint %q must be host[:port] without scheme", c.Endpoint)
	}
	if c.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if c.PublicURL != "" {
		if _, err := url.ParseRequestURI(c.PublicURL); err != nil {
			return fmt.Errorf("minio publicURL: %w", err)
		}
	}
	return nil
}

// MinIOStorage stores images in a MinIO or S3 bucket.
type MinIOStorage struct {
	client *minio.Client
	config MinIOConfig
}

// NewMinIOStorage creates the client. It does not contact the server; call
// EnsureBucket before serving.
func NewMinIOStorage(cfg MinIOConfig) (*MinIOStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOStorage{client: client, config: cfg}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.config.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.config.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{Region: s.config.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.config.Bucket, err)
	}
	return nil
}

// Save uploads data as an object.
func (s *MinIOStorage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.objectKey(name)
	_, err := s.client.PutObject(ctx, s.config.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

func (s *MinIOStorage) objectKey(name string) string {
	prefix := strings.Trim(s.config.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (s *MinIOStorage) objectURL(key string) string {
	base := strings.TrimRight(s.config.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if s.config.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + s.config.Endpoint + "/" + s.config.Bucket
	}
	return base + "/" + key
}
