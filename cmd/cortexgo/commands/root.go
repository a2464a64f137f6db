package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesmcaleer/cortexgo/pkg/cli"
)

var (
	// Global flags
	flagConfigPath string
	flagDebug      bool

	// Global configuration (loaded on first use)
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "cortexgo",
	Short: "Interactive session setup for the Emotiv Cortex service",
	Long: `cortexgo - command line companion for the Emotiv Cortex service.

The run command connects to the Cortex WebSocket API, authorizes with
your application credentials, and walks you through verifying your
EMOTIV ID, picking or creating a subject, connecting a headset, opening
a session, and choosing data streams to subscribe to.

Credentials live in named contexts under ~/.cortexgo/config.yaml
(override the directory with CORTEXGO_HOME).

Examples:
  # Store credentials, then walk the workflow
  cortexgo configure --name default
  cortexgo run

  # Point at a non-default endpoint with verbose frame logging
  cortexgo run --url wss://localhost:6868 --debug`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path (default ~/.cortexgo/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log every JSON-RPC frame")
}

// loadConfig returns the shared config, resolving the path once.
func loadConfig() (*cli.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}
	path := flagConfigPath
	if path == "" {
		var err error
		path, err = cli.DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
	}
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}
