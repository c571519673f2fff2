// Package config loads runtime configuration for the upload widget front end.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), the "plain" preset.
//  2. Optional JSON file (see parseJson) selected via -c/-config or the
//     UPLOADER_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:3001",
//	  "upload_path": "/upload",
//	  "files_path": "/files",
//	  "variant": "dropzone",
//	  "accept": ["image/*", "application/pdf"],
//	  "compress_threshold": 4194304,
//	  "compress_quality": 0.6,
//	  "request_timeout": "30s",
//	  "online_check_interval": "3s",
//	  "log_level": "debug"
//	}
package config
