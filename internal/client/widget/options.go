package widget

import (
	"fmt"
	"strings"
)

// DefaultCompressThreshold is the size above which images are compressed.
const DefaultCompressThreshold int64 = 4 * 1024 * 1024

// ClearPolicy decides when the selection is dropped after an upload attempt.
type ClearPolicy int

const (
	// ClearOnSuccess keeps the file selected after a failed attempt.
	ClearOnSuccess ClearPolicy = iota
	// ClearAlways drops the selection after every attempt.
	ClearAlways
)

func (p ClearPolicy) String() string {
	if p == ClearAlways {
		return "always"
	}
	return "on_success"
}

func ParseClearPolicy(s string) (ClearPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ClearAlways, nil
	case "on_success", "on-success", "success":
		return ClearOnSuccess, nil
	}
	return ClearOnSuccess, fmt.Errorf("unknown clear policy %q", s)
}

// Variant names a preset combination of capabilities.
type Variant string

const (
	VariantPlain    Variant = "plain"
	VariantCompress Variant = "compress"
	VariantDropzone Variant = "dropzone"
)

// Options are the capability flags of an UploadWidget.
type Options struct {
	Compression bool
	Dropzone    bool
	// AutoUpload starts an upload right after an accepted drop.
	AutoUpload  bool
	ClearPolicy ClearPolicy
	// CompressThreshold is compared with "greater than"; a file of exactly
	// this size is sent as is.
	CompressThreshold int64
}

// Preset returns the options of a named variant.
func Preset(v Variant) (Options, error) {
	switch v {
	case VariantPlain:
		return Options{ClearPolicy: ClearOnSuccess, CompressThreshold: DefaultCompressThreshold}, nil
	case VariantCompress:
		return Options{Compression: true, ClearPolicy: ClearAlways, CompressThreshold: DefaultCompressThreshold}, nil
	case VariantDropzone:
		return Options{Dropzone: true, AutoUpload: true, ClearPolicy: ClearAlways, CompressThreshold: DefaultCompressThreshold}, nil
	}
	return Options{}, fmt.Errorf("unknown variant %q", v)
}
