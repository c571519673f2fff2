package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/flagx"
)

var knownFlags = []string{
	"-a", "-upload-path", "-files-path", "-v", "-clear", "-accept",
	"-t", "-q", "-max-width", "-max-height", "-r", "-i", "-p", "-l",
}

var knownBoolFlags = []string{"-z", "-d", "-auto"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          backend base URL, e.g. http://localhost:3001
//	-upload-path path  upload endpoint path
//	-files-path path   listing endpoint path
//	-v name            variant preset: plain, compress or dropzone
//	-z                 enable client-side compression
//	-d                 enable the drop zone
//	-auto              upload right after a successful drop
//	-clear policy      "always" or "on_success"
//	-accept list       comma-separated accept patterns, e.g. image/*,application/pdf
//	-t bytes           compression threshold
//	-q float           compression quality factor in (0, 1]
//	-max-width int     compression bounding box width, 0 = unlimited
//	-max-height int    compression bounding box height, 0 = unlimited
//	-r int             request timeout in seconds, 0 = none
//	-i int             online check interval in seconds
//	-p dir             directory for PDF preview files
//	-l level           log level
//
// A -v preset is applied first; explicitly given capability flags win over it.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags, knownBoolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.UploadPath, "upload-path", cfg.UploadPath, "upload endpoint path")
	fs.StringVar(&cfg.FilesPath, "files-path", cfg.FilesPath, "listing endpoint path")

	variant := fs.String("v", cfg.Variant, "variant preset (plain, compress, dropzone)")
	compression := fs.Bool("z", cfg.Compression, "enable client-side compression")
	dropzone := fs.Bool("d", cfg.Dropzone, "enable the drop zone")
	autoUpload := fs.Bool("auto", cfg.AutoUpload, "upload right after a drop")
	clearPolicy := fs.String("clear", cfg.ClearPolicy, "clear policy (always, on_success)")
	accept := fs.String("accept", strings.Join(cfg.Accept, ","), "accepted MIME patterns")

	fs.Int64Var(&cfg.CompressThreshold, "t", cfg.CompressThreshold, "compression threshold in bytes")
	fs.Float64Var(&cfg.CompressQuality, "q", cfg.CompressQuality, "compression quality factor")
	fs.IntVar(&cfg.CompressMaxWidth, "max-width", cfg.CompressMaxWidth, "compression max width")
	fs.IntVar(&cfg.CompressMaxHeight, "max-height", cfg.CompressMaxHeight, "compression max height")

	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	fs.StringVar(&cfg.PreviewDir, "p", cfg.PreviewDir, "preview directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["v"] {
		if err := cfg.ApplyVariant(*variant); err != nil {
			panic(err)
		}
	}
	if set["z"] {
		cfg.Compression = *compression
	}
	if set["d"] {
		cfg.Dropzone = *dropzone
	}
	if set["auto"] {
		cfg.AutoUpload = *autoUpload
	}
	if set["clear"] {
		cfg.ClearPolicy = *clearPolicy
	}
	if set["accept"] {
		cfg.Accept = splitList(*accept)
	}

	if set["r"] {
		cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	}
	if set["i"] {
		cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	}
}
