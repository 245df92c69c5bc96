package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophattach/internal/flagx"
)

var (
	valueFlags = []string{"-a", "-n", "-m", "-T", "-k", "-o", "-H", "-t", "-u", "-p", "-b", "-g", "-e", "-P", "-s", "-f", "-l"}
	boolFlags  = []string{"-d", "-S"}
)

// ValueFlags lists every flag Load understands that takes a separate value,
// the config file flag included. Commands use it to tell flags apart from
// positional arguments.
func ValueFlags() []string {
	return append([]string{"-c", "-config", "--config"}, valueFlags...)
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     console listen address (e.g., ":8080")
//	-n int        maximum number of items per form
//	-m int        maximum file size, MB
//	-T string     comma-separated accepted MIME types
//	-d            start with the upload control disabled
//	-k string     transport: s3, minio or http
//	-o duration   per-attempt upload timeout (e.g., "90s")
//	-H string     upload endpoint for the http transport
//	-t string     access token the http transport sends
//	-u string     S3 access key
//	-p string     S3 secret key
//	-b string     S3 bucket
//	-g string     S3 region
//	-e string     S3 endpoint URL (minio also takes host:port)
//	-S            use TLS for minio
//	-P string     public base URL for stored objects
//	-s string     JWT secret key (empty disables console auth)
//	-f string     log format: text or json
//	-l string     log level
//
// Value flags are filtered through flagx.FilterArgs first so positional file
// arguments and the -c flag do not collide. Boolean flags never consume the
// following argument.
func parseFlags(config *Config, args []string) error {
	args = append(flagx.FilterArgs(args, valueFlags), filterBoolArgs(args)...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run console")
	fs.IntVar(&config.MaxItems, "n", config.MaxItems, "maximum number of items")
	fs.Int64Var(&config.MaxFileSizeMB, "m", config.MaxFileSizeMB, "maximum file size (in MB)")
	types := fs.String("T", strings.Join(config.AllowedTypes, ","), "accepted MIME types")
	fs.BoolVar(&config.Disabled, "d", config.Disabled, "disable uploads")

	fs.StringVar(&config.Transport, "k", config.Transport, "upload transport")
	fs.DurationVar(&config.UploadTimeout, "o", config.UploadTimeout, "upload timeout")
	fs.StringVar(&config.HTTPEndpoint, "H", config.HTTPEndpoint, "http upload endpoint")
	fs.StringVar(&config.HTTPAccessToken, "t", config.HTTPAccessToken, "http upload access token")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.S3UseSSL, "S", config.S3UseSSL, "use TLS for minio")
	fs.StringVar(&config.PublicBaseURL, "P", config.PublicBaseURL, "public base URL")

	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	config.AllowedTypes = splitList(*types)
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterBoolArgs(args []string) []string {
	out := make([]string, 0)
	for _, arg := range args {
		name, _, _ := strings.Cut(arg, "=")
		if slices.Contains(boolFlags, name) {
			out = append(out, arg)
		}
	}
	return out
}
