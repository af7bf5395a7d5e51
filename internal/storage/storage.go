// Package storage talks to the S3-compatible bucket the treated tables are
// published to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/andresuchdata/tabloide-insight/internal/config"
)

// ErrObjectNotFound is returned by GetObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the batch and
// the dashboard need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte) error
}

// Config encapsulates the connection info for an S3-compatible bucket.
type Config struct {
	Driver    string // minio (default) or chartmuseum
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ConfigFrom maps the S3_* settings onto a client Config.
func ConfigFrom(c config.StorageConfig) Config {
	return Config{
		Driver:    c.Driver,
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Bucket:    c.Bucket,
		Region:    c.Region,
		UseSSL:    c.UseSSL,
	}
}

func (c Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("storage endpoint must be provided")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("storage credentials must be provided")
	}
	if c.Bucket == "" {
		return fmt.Errorf("storage bucket must be provided")
	}
	return nil
}

func (c Config) region() string {
	if r := strings.TrimSpace(c.Region); r != "" {
		return r
	}
	return "us-east-1"
}

// New builds the client selected by cfg.Driver.
func New(cfg Config) (ObjectStorage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "minio":
		return NewMinioClient(cfg)
	case "bucket", "chartmuseum":
		return NewBucketClient(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Key joins a prefix and a file name into an object key.
func Key(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
