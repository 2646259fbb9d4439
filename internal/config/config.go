// Package config loads the schemareg configuration file.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/filestore"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/registry"
	"github.com/koustreak/schemareg/internal/server"
)

// Config is the top-level configuration.
//
//	log:
//	  level: debug
//	  format: console
//	registry:
//	  default_schema: public
//	source:
//	  path: ./schema.yaml
//	server:
//	  addr: ":8080"
type Config struct {
	Log      logger.Config   `yaml:"log"`
	Registry registry.Config `yaml:"registry"`
	Source   Source          `yaml:"source"`
	Server   server.Config   `yaml:"server"`
}

// Source names where the database description is read from: a local file
// (Path) or every document under Prefix in an object store bucket.
type Source struct {
	Path string `yaml:"path" validate:"required_without=Store,excluded_with=Store"`

	// Watch reloads Path whenever it changes. Ignored for object stores.
	Watch bool `yaml:"watch"`

	Store  *filestore.Config `yaml:"store"`
	Bucket string            `yaml:"bucket" validate:"required_with=Store"`
	Prefix string            `yaml:"prefix"`
}

// Default returns a Config with every section at its defaults and no source.
func Default() *Config {
	return &Config{
		Log:      *logger.DefaultConfig(),
		Registry: *registry.DefaultConfig(),
		Server:   *server.DefaultConfig(),
	}
}

// Load reads filename over Default. Unknown keys are rejected. The result is
// not validated; call Validate once command-line overrides are applied.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindNotFound, "config file not found", err)
		}
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read config file", err)
	}
	return Parse(data)
}

// Parse decodes data over Default. An empty document yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed config", err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that exactly one source is configured and that the
// registry and server sections are usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid config", err)
	}
	if c.Registry.DefaultSchema == "" {
		return errs.New(errs.ErrKindInvalidInput, "invalid config: registry.default_schema is empty")
	}
	if c.Source.Store != nil && c.Source.Store.Endpoint == "" {
		return errs.New(errs.ErrKindInvalidInput, "invalid config: source.store.endpoint is empty")
	}
	return nil
}
