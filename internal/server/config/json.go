package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/uploadwidget/internal/flagx"
	"github.com/dmitrijs2005/uploadwidget/internal/timex"
)

// JsonConfig is a DTO used only for reading JSON configuration files.
// Absent keys leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddr   string          `json:"endpoint_addr"`
	PublicBaseURL  string          `json:"public_base_url"`
	DatabaseDriver string          `json:"database_driver"`
	DatabaseDSN    string          `json:"database_dsn"`
	StorageBackend string          `json:"storage_backend"`
	StorageDir     string          `json:"storage_dir"`
	MaxUploadSize  *int64          `json:"max_upload_size"`
	LinkSecret     string          `json:"link_secret"`
	LinkTTL        *timex.Duration `json:"link_ttl"`
	S3RootUser     string          `json:"s3_root_user"`
	S3RootPassword string          `json:"s3_root_password"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3BaseEndpoint string          `json:"s3_base_endpoint"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays Config with values from the JSON file named by
// -c/-config (or $UPLOADER_CONFIG). Panics if the file cannot be read or
// decoded.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.EndpointAddr, jc.EndpointAddr)
	setString(&cfg.PublicBaseURL, jc.PublicBaseURL)
	setString(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.StorageDir, jc.StorageDir)
	if jc.MaxUploadSize != nil {
		cfg.MaxUploadSize = *jc.MaxUploadSize
	}
	setString(&cfg.LinkSecret, jc.LinkSecret)
	if jc.LinkTTL != nil {
		cfg.LinkTTL = jc.LinkTTL.Duration
	}
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
