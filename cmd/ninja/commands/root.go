// Package commands implements the ninja command tree.
package commands

import (
	"fmt"

	"github.com/Sternrassler/renewables-client/internal/config"
	"github.com/Sternrassler/renewables-client/pkg/logging"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configFile string
	output     string
	logLevel   string

	cfg *config.Config
}

// NewRootCommand builds the ninja command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "ninja",
		Short: "renewables.ninja client",
		Long: `Fetch PV, wind and solar-thermal profiles from renewables.ninja through a
cached client that rotates across several API tokens.

Tokens are read from RES_NINJA_TOKENS, separated like PATH entries.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./config.yaml or $HOME/.renewables-client/config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", OutputFormatTable, "output format (table, json, yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	cmd.AddCommand(newRoundCommand(opts))
	cmd.AddCommand(newProfileCommand(opts))
	cmd.AddCommand(newFleetCommand(opts))
	cmd.AddCommand(newLCOECommand(opts))
	cmd.AddCommand(newPlanCommand(opts))
	cmd.AddCommand(newCredentialsCommand(opts))

	return cmd
}

func (o *globalOptions) load() error {
	switch o.output {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", o.output)
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	o.cfg = cfg

	logging.Setup(cfg.Logging())
	return nil
}
