package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/uploadwidget/internal/flagx"
	"github.com/dmitrijs2005/uploadwidget/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched, hence the pointers.
type JsonConfig struct {
	BaseURL    string `json:"base_url"`
	UploadPath string `json:"upload_path"`
	FilesPath  string `json:"files_path"`

	Variant     string   `json:"variant"`
	Compression *bool    `json:"compression"`
	Dropzone    *bool    `json:"dropzone"`
	AutoUpload  *bool    `json:"auto_upload"`
	ClearPolicy string   `json:"clear_policy"`
	Accept      []string `json:"accept"`

	CompressThreshold *int64   `json:"compress_threshold"`
	CompressQuality   *float64 `json:"compress_quality"`
	CompressMaxWidth  *int     `json:"compress_max_width"`
	CompressMaxHeight *int     `json:"compress_max_height"`

	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`

	PreviewDir string `json:"preview_dir"`
	LogLevel   string `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config (or $UPLOADER_CONFIG). Panics on read, decode or preset errors.
//
// The variant preset is applied before the other capability keys, so
// {"variant": "compress", "clear_policy": "on_success"} is a compress preset
// that keeps the selection after a failure.
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

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.UploadPath, jc.UploadPath)
	setString(&cfg.FilesPath, jc.FilesPath)

	if jc.Variant != "" {
		if err := cfg.ApplyVariant(jc.Variant); err != nil {
			panic(err)
		}
	}
	setValue(&cfg.Compression, jc.Compression)
	setValue(&cfg.Dropzone, jc.Dropzone)
	setValue(&cfg.AutoUpload, jc.AutoUpload)
	setString(&cfg.ClearPolicy, jc.ClearPolicy)
	if jc.Accept != nil {
		cfg.Accept = jc.Accept
	}

	setValue(&cfg.CompressThreshold, jc.CompressThreshold)
	setValue(&cfg.CompressQuality, jc.CompressQuality)
	setValue(&cfg.CompressMaxWidth, jc.CompressMaxWidth)
	setValue(&cfg.CompressMaxHeight, jc.CompressMaxHeight)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}

	setString(&cfg.PreviewDir, jc.PreviewDir)
	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
