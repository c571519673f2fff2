// Package config handles configuration for the upload server, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Supported database drivers, as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Supported storage backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config holds runtime settings for the upload server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP endpoint.
//   - PublicBaseURL: externally visible base URL used to build disk download links.
//   - DatabaseDriver / DatabaseDSN: metadata store, "sqlite" or "pgx".
//   - StorageBackend: "disk" (StorageDir) or "s3" (S3* settings).
//   - MaxUploadSize: largest accepted request body in bytes.
//   - LinkSecret / LinkTTL: HMAC secret and lifetime of download links.
type Config struct {
	EndpointAddr   string
	PublicBaseURL  string
	DatabaseDriver string
	DatabaseDSN    string
	StorageBackend string
	StorageDir     string
	MaxUploadSize  int64
	LinkSecret     string
	LinkTTL        time.Duration
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the link secret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3001"
	c.PublicBaseURL = "http://localhost:3001"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "uploads.db"
	c.StorageBackend = BackendDisk
	c.StorageDir = "data/uploads"
	c.MaxUploadSize = 32 << 20
	c.LinkSecret = "secretKey"
	c.LinkTTL = 60 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "uploads"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	switch c.StorageBackend {
	case BackendDisk:
		if c.StorageDir == "" {
			return fmt.Errorf("storage dir is required for the disk backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.StorageBackend)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadSize)
	}
	if c.LinkSecret == "" {
		return fmt.Errorf("link secret is required")
	}
	if c.LinkTTL <= 0 {
		return fmt.Errorf("link ttl must be positive, got %s", c.LinkTTL)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
