package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tomodakengo/kensa-sub001"
	"github.com/tomodakengo/kensa-sub001/internal/config"
	"github.com/tomodakengo/kensa-sub001/internal/logging"
	"github.com/tomodakengo/kensa-sub001/registry"
	"github.com/tomodakengo/kensa-sub001/validate"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	output  string

	cfg    config.Config
	logger *slog.Logger
	reg    *registry.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "locatorctl",
		Short: "Manage UI-automation element locators",
		Long: `locatorctl records, inspects and transfers the UI element locators used by
automated UI tests. Locators are grouped into pages and stored one document
per page.`,
		Version:       kensa.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultConfigPath+")")
	flags.String("root", "", "locator directory for the file backend")
	flags.String("backend", "", "storage backend: file or dynamodb")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.StringVarP(&a.output, "output", "o", "yaml", "output format for get, resolve and version: yaml or json")

	_ = a.v.BindPFlag("storage.root", flags.Lookup("root"))
	_ = a.v.BindPFlag("storage.backend", flags.Lookup("backend"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newResolveCmd(a),
		newSaveCmd(a),
		newDeleteCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadViper(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

// openRegistry opens the configured store and loads it on first use. Pages that
// fail to load are logged by the registry and left out.
func (a *app) openRegistry(cmd *cobra.Command) (*registry.Registry, error) {
	if a.reg != nil {
		return a.reg, nil
	}

	reg, _, err := kensa.Open(cmd.Context(), kensa.Options{
		Backend:   a.cfg.Storage.Backend,
		Root:      a.cfg.Storage.Root,
		Table:     a.cfg.DynamoDB.Table,
		Region:    a.cfg.DynamoDB.Region,
		AccessKey: a.cfg.DynamoDB.AccessKey,
		SecretKey: a.cfg.DynamoDB.SecretKey,
		CacheTTL:  a.cfg.Cache.ResolveTTL,
		Logger:    a.logger,
		Validator: validate.DefaultHook(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening locator registry: %w", err)
	}
	a.reg = reg
	return reg, nil
}
