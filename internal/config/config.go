// Package config handles configuration for the console and the attach CLI:
// built-in defaults, an optional JSON or YAML file overlay, then
// command-line flags, followed by validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gophattach/internal/validation"
)

// Config holds runtime settings.
//
// Transport selects where accepted files go: "s3" (presigned PUT through the
// AWS SDK), "minio" (minio-go PutObject) or "http" (multipart POST to
// HTTPEndpoint). An empty SecretKey disables console authentication.
type Config struct {
	ListenAddr    string   `validate:"required"`
	MaxItems      int      `validate:"gte=1"`
	MaxFileSizeMB int64    `validate:"gte=1"`
	AllowedTypes  []string `validate:"min=1,dive,required,contains=/"`
	Disabled      bool

	Transport     string        `validate:"oneof=s3 minio http"`
	UploadTimeout time.Duration `validate:"gte=0"`
	HTTPEndpoint  string        `validate:"required_if=Transport http,omitempty,url"`

	// sent in the access token header by the http transport when set
	HTTPAccessToken string

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string `validate:"required_unless=Transport http"`
	S3Region       string
	S3BaseEndpoint string `validate:"required_if=Transport minio"`
	S3UseSSL       bool
	KeyPrefix      string
	PublicBaseURL  string `validate:"omitempty,url"`

	SecretKey                   string
	AccessTokenValidityDuration time.Duration `validate:"gte=0"`

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
}

// LoadDefaults populates Config with development defaults that match the
// complaint form: five images, 3 MB each, jpeg/png/webp/gif.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.MaxItems = 5
	c.MaxFileSizeMB = 3
	c.AllowedTypes = append([]string(nil), validation.DefaultAllowedTypes...)
	c.Disabled = false
	c.Transport = "s3"
	c.UploadTimeout = 2 * time.Minute
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "evidence"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.KeyPrefix = "complaints"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// Rules returns the admission rules derived from the config.
func (c *Config) Rules() validation.Rules {
	return validation.NewRules(c.AllowedTypes, c.MaxFileSizeMB)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Load builds a Config from defaults, the file named by -c/-config and the
// flags found in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
