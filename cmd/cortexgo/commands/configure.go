package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesmcaleer/cortexgo/pkg/cli"
)

var (
	flagConfigureName string
	flagConfigureURL  string
	flagConfigureUse  bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store application credentials in a named context",
	Long: `Store Cortex application credentials (from the Emotiv developer
portal) in a named context. The first context created becomes current.

Example:
  cortexgo configure --name lab --url wss://lab-host:6868`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		term := cli.NewTerminal(os.Stdin, os.Stdout)
		clientID, err := term.Prompt("client id")
		if err != nil {
			return err
		}
		clientSecret, err := term.Prompt("client secret")
		if err != nil {
			return err
		}
		if clientID == "" || clientSecret == "" {
			return fmt.Errorf("client id and secret are required")
		}

		cfg.SetContext(&cli.Context{
			Name:         flagConfigureName,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			URL:          flagConfigureURL,
		})
		if flagConfigureUse {
			if err := cfg.Use(flagConfigureName); err != nil {
				return err
			}
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		term.Successf("context %q saved", flagConfigureName)
		return nil
	},
}

var useContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Select the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Use(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", args[0])
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVar(&flagConfigureName, "name", "default", "context name")
	configureCmd.Flags().StringVar(&flagConfigureURL, "url", "", "Cortex WebSocket endpoint override")
	configureCmd.Flags().BoolVar(&flagConfigureUse, "use", false, "make this context current even if another is selected")
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(useContextCmd)
}
