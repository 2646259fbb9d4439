package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/koustreak/schemareg/internal/config"
	"github.com/koustreak/schemareg/internal/logger"
)

// Environment variables read on top of the config file.
const (
	envConfig    = "SCHEMAREG_CONFIG"
	envAccessKey = "SCHEMAREG_STORE_ACCESS_KEY"
	envSecretKey = "SCHEMAREG_STORE_SECRET_KEY"
)

type rootOptions struct {
	configFile string
	schemaFile string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "schemareg",
		Short: "Typed catalog of a relational database schema",
		Long: `schemareg loads a description of a database (tables, views, functions,
enums and composite types grouped by schema) and answers questions about it:
which fields a row has, which are required on insert, which relations a
table points at, and what a function accepts and returns.

The configuration file is taken from --config or $SCHEMAREG_CONFIG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", os.Getenv(envConfig), "configuration file")
	cmd.PersistentFlags().StringVarP(&opts.schemaFile, "file", "f", "", "schema document, overrides source.path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	return cmd
}

// load reads the configuration, applies flag and environment overrides,
// validates the result and installs the global logger.
func (o *rootOptions) load() error {
	cfg := config.Default()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return err
		}
	}

	if o.schemaFile != "" {
		cfg.Source.Path = o.schemaFile
		cfg.Source.Store = nil
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if cfg.Source.Store != nil {
		if v := os.Getenv(envAccessKey); v != "" {
			cfg.Source.Store.AccessKey = v
		}
		if v := os.Getenv(envSecretKey); v != "" {
			cfg.Source.Store.SecretKey = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.SetGlobal(logger.New(&cfg.Log))
	o.cfg = cfg
	return nil
}
