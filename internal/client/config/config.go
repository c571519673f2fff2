package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/client/widget"
	"github.com/dmitrijs2005/uploadwidget/internal/common"
)

// Config holds runtime settings for the upload widget front end.
//
// Capability flags (Compression, Dropzone, AutoUpload, ClearPolicy) start from
// the preset named by Variant; explicitly configured values override it.
type Config struct {
	BaseURL    string
	UploadPath string
	FilesPath  string

	Variant     string
	Compression bool
	Dropzone    bool
	AutoUpload  bool
	ClearPolicy string
	Accept      []string

	CompressThreshold int64
	CompressQuality   float64
	CompressMaxWidth  int
	CompressMaxHeight int

	// RequestTimeout of zero leaves requests bounded only by their context.
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	PreviewDir string
	LogLevel   string
}

// LoadDefaults populates c with the "plain" preset and local endpoints.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3001"
	c.UploadPath = common.DefaultUploadPath
	c.FilesPath = common.DefaultFilesPath

	if err := c.ApplyVariant(string(widget.VariantPlain)); err != nil {
		panic(err)
	}
	c.Accept = []string{"image/*", "application/pdf"}

	c.CompressThreshold = widget.DefaultCompressThreshold
	c.CompressQuality = 0.6
	c.CompressMaxWidth = 0
	c.CompressMaxHeight = 0

	c.RequestTimeout = 0
	c.OnlineCheckInterval = 3 * time.Second

	c.PreviewDir = ""
	c.LogLevel = "info"
}

// ApplyVariant overwrites the capability flags with the named preset.
func (c *Config) ApplyVariant(name string) error {
	v := widget.Variant(strings.ToLower(strings.TrimSpace(name)))
	opts, err := widget.Preset(v)
	if err != nil {
		return err
	}
	c.Variant = string(v)
	c.Compression = opts.Compression
	c.Dropzone = opts.Dropzone
	c.AutoUpload = opts.AutoUpload
	c.ClearPolicy = opts.ClearPolicy.String()
	return nil
}

// WidgetOptions converts the capability settings into widget options.
func (c *Config) WidgetOptions() (widget.Options, error) {
	policy, err := widget.ParseClearPolicy(c.ClearPolicy)
	if err != nil {
		return widget.Options{}, err
	}
	if c.CompressQuality <= 0 || c.CompressQuality > 1 {
		return widget.Options{}, fmt.Errorf("compress quality must be in (0, 1], got %v", c.CompressQuality)
	}
	if c.CompressThreshold < 0 {
		return widget.Options{}, fmt.Errorf("compress threshold must not be negative, got %d", c.CompressThreshold)
	}
	return widget.Options{
		Compression:       c.Compression,
		Dropzone:          c.Dropzone,
		AutoUpload:        c.AutoUpload,
		ClearPolicy:       policy,
		CompressThreshold: c.CompressThreshold,
	}, nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
