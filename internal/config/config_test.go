package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/filestore"
)

func TestParse_OverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
  format: console
registry:
  default_schema: graphql_public
source:
  path: ./schema.yaml
  watch: true
server:
  read_timeout: 2s
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "rfc3339", cfg.Log.TimeFormat)
	assert.Equal(t, "graphql_public", cfg.Registry.DefaultSchema)
	assert.Equal(t, "./schema.yaml", cfg.Source.Path)
	assert.True(t, cfg.Source.Watch)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("servr:\n  addr: :9000\n"))
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "schemareg.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
source:
  store:
    provider: minio
    endpoint: localhost:9000
    access_key: minio
    secret_key: minio123
  bucket: schemas
  prefix: travel/
`), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.NotNil(t, cfg.Source.Store)
	assert.Equal(t, filestore.ProviderMinIO, cfg.Source.Store.Provider)
	assert.Equal(t, "localhost:9000", cfg.Source.Store.Endpoint)
	assert.Equal(t, "schemas", cfg.Source.Bucket)
	assert.NoError(t, cfg.Validate())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errs.IsNotFound(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"file source", func(c *Config) { c.Source.Path = "schema.yaml" }, true},
		{"store source", func(c *Config) {
			c.Source.Store = filestore.DefaultConfig("localhost:9000", "k", "s")
			c.Source.Bucket = "schemas"
		}, true},
		{"no source", func(c *Config) {}, false},
		{"both sources", func(c *Config) {
			c.Source.Path = "schema.yaml"
			c.Source.Store = filestore.DefaultConfig("localhost:9000", "k", "s")
			c.Source.Bucket = "schemas"
		}, false},
		{"unsupported provider", func(c *Config) {
			c.Source.Store = filestore.DefaultConfig("localhost:9000", "k", "s")
			c.Source.Store.Provider = "s3"
			c.Source.Bucket = "schemas"
		}, false},
		{"provider left empty", func(c *Config) {
			c.Source.Store = &filestore.Config{Endpoint: "localhost:9000"}
			c.Source.Bucket = "schemas"
		}, true},
		{"store without bucket", func(c *Config) {
			c.Source.Store = filestore.DefaultConfig("localhost:9000", "k", "s")
		}, false},
		{"store without endpoint", func(c *Config) {
			c.Source.Store = filestore.DefaultConfig("", "k", "s")
			c.Source.Bucket = "schemas"
		}, false},
		{"empty default schema", func(c *Config) {
			c.Source.Path = "schema.yaml"
			c.Registry.DefaultSchema = ""
		}, false},
		{"empty addr", func(c *Config) {
			c.Source.Path = "schema.yaml"
			c.Server.Addr = ""
		}, false},
		{"negative timeout", func(c *Config) {
			c.Source.Path = "schema.yaml"
			c.Server.WriteTimeout = -time.Second
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.IsInvalidInput(err), "got %v", err)
		})
	}
}
