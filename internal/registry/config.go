package registry

// DefaultSchemaName is the schema unqualified lookups resolve against unless
// configured otherwise.
const DefaultSchemaName = "public"

// Config holds registry settings.
type Config struct {
	// DefaultSchema is the only schema searched by unqualified lookups.
	DefaultSchema string `yaml:"default_schema"`
}

// DefaultConfig returns a Config resolving unqualified names in "public".
func DefaultConfig() *Config {
	return &Config{DefaultSchema: DefaultSchemaName}
}
