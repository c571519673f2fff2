package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/flagx"
)

var knownFlags = []string{
	"-a", "-public-url", "-db-driver", "-d", "-storage", "-dir", "-m", "-s", "-t",
	"-u", "-p", "-b", "-g", "-e", "-l",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string           HTTP bind address (e.g., ":3001")
//	-public-url string  public base URL for download links
//	-db-driver string   "sqlite" or "pgx"
//	-d string           database DSN
//	-storage string     "disk" or "s3"
//	-dir string         disk storage root
//	-m int              max upload size, bytes
//	-s string           link signing secret
//	-t int              link validity, minutes
//	-u string           S3 root user
//	-p string           S3 root password
//	-b string           S3 bucket name
//	-g string           S3 region
//	-e string           S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string           log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to run server")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "public base URL")
	fs.StringVar(&cfg.DatabaseDriver, "db-driver", cfg.DatabaseDriver, "database driver")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "storage backend")
	fs.StringVar(&cfg.StorageDir, "dir", cfg.StorageDir, "disk storage root")
	fs.Int64Var(&cfg.MaxUploadSize, "m", cfg.MaxUploadSize, "max upload size (in bytes)")
	fs.StringVar(&cfg.LinkSecret, "s", cfg.LinkSecret, "link signing secret")

	linkTTL := fs.Int("t", int(cfg.LinkTTL.Minutes()), "link validity (in minutes)")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.LinkTTL = time.Duration(*linkTTL) * time.Minute
		}
	})
}
