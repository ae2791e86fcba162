// Package config loads the richedit CLI configuration from a YAML file,
// an optional .env file and RICHEDIT_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
	"github.com/rgonek/richedit/mdexport"
	"github.com/rgonek/richedit/upload"
	"github.com/rgonek/richedit/uploadserver"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RICHEDIT_"

// Storage backends.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Config is the application configuration.
type Config struct {
	Preset  string                `yaml:"preset,omitempty"`
	Parser  htmlparser.Config     `yaml:"parser,omitempty"`
	Render  document.RenderConfig `yaml:"render,omitempty"`
	Export  mdexport.Config       `yaml:"export,omitempty"`
	Upload  upload.Config         `yaml:"upload,omitempty"`
	Server  uploadserver.Config   `yaml:"server,omitempty"`
	Storage StorageConfig         `yaml:"storage,omitempty"`
	Log     LogConfig             `yaml:"log,omitempty"`
}

// StorageConfig selects where the upload endpoint keeps images.
type StorageConfig struct {
	Backend string                   `yaml:"backend,omitempty"`
	Dir     string                   `yaml:"dir,omitempty"`
	BaseURL string                   `yaml:"baseURL,omitempty"`
	MinIO   uploadserver.MinIOConfig `yaml:"minio,omitempty"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	// File enables the rotating JSON log file when set.
	File string `yaml:"file,omitempty"`
	JSON bool   `yaml:"json,omitempty"`
}

// Load reads the YAML file at path (skipped when empty), then applies
// .env and environment overrides and defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg = cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) applyDefaults() Config {
	out := c
	if out.Preset == "" {
		out.Preset = "default"
	}
	if out.Storage.Backend == "" {
		out.Storage.Backend = StorageLocal
	}
	if out.Storage.Dir == "" {
		out.Storage.Dir = "./uploads"
	}
	if out.Log.Level == "" {
		out.Log.Level = "info"
	}
	return out
}

// Validate checks the storage selection. Package configs are validated by
// their constructors.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageLocal:
	case StorageMinIO:
		if err := c.Storage.MinIO.Validate(); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	default:
		return fmt.Errorf("storage: unknown backend %q (allowed: local, minio)", c.Storage.Backend)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = parsed
		return nil
	}

	str("PRESET", &c.Preset)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)
	str("UPLOAD_ENDPOINT", &c.Upload.Endpoint)
	str("SERVER_ADDR", &c.Server.Addr)
	str("SERVER_ALLOWED_ORIGINS", &c.Server.AllowedOrigins)
	str("STORAGE_BACKEND", &c.Storage.Backend)
	str("STORAGE_DIR", &c.Storage.Dir)
	str("STORAGE_BASE_URL", &c.Storage.BaseURL)
	str("MINIO_ENDPOINT", &c.Storage.MinIO.Endpoint)
	str("MINIO_ACCESS_KEY", &c.Storage.MinIO.AccessKey)
	str("MINIO_SECRET_KEY", &c.Storage.MinIO.SecretKey)
	str("MINIO_BUCKET", &c.Storage.MinIO.Bucket)
	str("MINIO_PUBLIC_URL", &c.Storage.MinIO.PublicURL)

	if v, ok := lookup(EnvPrefix + "UPLOAD_MAX_SIZE"); ok {
		size, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sUPLOAD_MAX_SIZE: %w", EnvPrefix, err)
		}
		c.Upload.Validator.MaxSize = size
		c.Server.Validator.MaxSize = size
	}
	for key, dst := range map[string]*bool{
		"LOG_JSON":          &c.Log.JSON,
		"UPLOAD_ALLOW_WEBP": &c.Upload.Validator.AllowWebP,
		"MINIO_USE_SSL":     &c.Storage.MinIO.UseSSL,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	if c.Upload.Validator.AllowWebP {
		c.Server.Validator.AllowWebP = true
	}
	return nil
}
