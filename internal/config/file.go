package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/gophattach/internal/flagx"
	"github.com/dmitrijs2005/gophattach/internal/timex"
)

// FileConfig is the on-disk shape of Config, shared by the JSON and YAML
// decoders. Durations accept "30s" or integer nanoseconds. Only keys present
// in the file override the defaults.
type FileConfig struct {
	ListenAddr    *string  `json:"listen_addr" yaml:"listen_addr"`
	MaxItems      *int     `json:"max_items" yaml:"max_items"`
	MaxFileSizeMB *int64   `json:"max_file_size_mb" yaml:"max_file_size_mb"`
	AllowedTypes  []string `json:"allowed_types" yaml:"allowed_types"`
	Disabled      *bool    `json:"disabled" yaml:"disabled"`

	Transport     *string         `json:"transport" yaml:"transport"`
	UploadTimeout *timex.Duration `json:"upload_timeout" yaml:"upload_timeout"`
	HTTPEndpoint  *string         `json:"http_endpoint" yaml:"http_endpoint"`

	HTTPAccessToken *string `json:"http_access_token" yaml:"http_access_token"`

	S3AccessKey    *string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    *string `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket       *string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       *string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3UseSSL       *bool   `json:"s3_use_ssl" yaml:"s3_use_ssl"`
	KeyPrefix      *string `json:"key_prefix" yaml:"key_prefix"`
	PublicBaseURL  *string `json:"public_base_url" yaml:"public_base_url"`

	SecretKey                   *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`

	LogFormat *string `json:"log_format" yaml:"log_format"`
	LogLevel  *string `json:"log_level" yaml:"log_level"`
}

// parseFile overlays the config file named by -c/-config onto config. The
// format follows the extension: .yaml/.yml are YAML, anything else is JSON.
// No flag means nothing to load.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlagFrom(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	set(&c.ListenAddr, fc.ListenAddr)
	set(&c.MaxItems, fc.MaxItems)
	set(&c.MaxFileSizeMB, fc.MaxFileSizeMB)
	if fc.AllowedTypes != nil {
		c.AllowedTypes = fc.AllowedTypes
	}
	set(&c.Disabled, fc.Disabled)

	set(&c.Transport, fc.Transport)
	if fc.UploadTimeout != nil {
		c.UploadTimeout = fc.UploadTimeout.Duration
	}
	set(&c.HTTPEndpoint, fc.HTTPEndpoint)
	set(&c.HTTPAccessToken, fc.HTTPAccessToken)

	set(&c.S3AccessKey, fc.S3AccessKey)
	set(&c.S3SecretKey, fc.S3SecretKey)
	set(&c.S3Bucket, fc.S3Bucket)
	set(&c.S3Region, fc.S3Region)
	set(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	set(&c.S3UseSSL, fc.S3UseSSL)
	set(&c.KeyPrefix, fc.KeyPrefix)
	set(&c.PublicBaseURL, fc.PublicBaseURL)

	set(&c.SecretKey, fc.SecretKey)
	if fc.AccessTokenValidityDuration != nil {
		c.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}

	set(&c.LogFormat, fc.LogFormat)
	set(&c.LogLevel, fc.LogLevel)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
