package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesmcaleer/cortexgo/pkg/cli"
	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
	"github.com/jamesmcaleer/cortexgo/pkg/setup"
)

var (
	flagContext      string
	flagURL          string
	flagTimeout      time.Duration
	flagInsecure     bool
	flagSubmitRecord bool
	flagSubjectFile  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Cortex and walk the session setup workflow",
	Long: `Connect to the Cortex service and walk the interactive setup:
verify your EMOTIV ID, authorize, pick or create a subject, connect a
headset, open a session, and subscribe to data streams.

Credentials come from the selected context, or from the
CORTEX_CLIENT_ID and CORTEX_CLIENT_SECRET environment variables.

Example:
  cortexgo run --context lab --submit-record`,
	RunE: runSetup,
}

func init() {
	runCmd.Flags().StringVarP(&flagContext, "context", "c", "", "config context to use (default: current)")
	runCmd.Flags().StringVar(&flagURL, "url", "", "Cortex WebSocket endpoint (default wss://localhost:6868)")
	runCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-call and warning-wait timeout (default 30s)")
	runCmd.Flags().BoolVar(&flagInsecure, "insecure", true, "skip TLS verification (Cortex uses a self-signed cert)")
	runCmd.Flags().BoolVar(&flagSubmitRecord, "submit-record", false, "submit the assembled record to Cortex at the end")
	runCmd.Flags().StringVar(&flagSubjectFile, "subject-file", "", "YAML/JSON file prefilling subject creation answers")
	rootCmd.AddCommand(runCmd)
}

// subjectPrefill is the on-disk shape of --subject-file.
type subjectPrefill struct {
	SubjectName string `json:"subjectName" yaml:"subjectName"`
	DateOfBirth string `json:"dateOfBirth" yaml:"dateOfBirth"`
	Sex         string `json:"sex" yaml:"sex"`
	CountryCode string `json:"countryCode" yaml:"countryCode"`
	State       string `json:"state" yaml:"state"`
	City        string `json:"city" yaml:"city"`
}

func runSetup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	clientID, clientSecret, opts, err := resolveCredentials()
	if err != nil {
		return err
	}

	setupOpts := setup.Options{SubmitRecord: flagSubmitRecord}
	if flagSubjectFile != "" {
		var pre subjectPrefill
		if err := cli.LoadPrefill(flagSubjectFile, &pre); err != nil {
			return err
		}
		setupOpts.SubjectDefaults = &cortex.SubjectFields{
			SubjectName: pre.SubjectName,
			DateOfBirth: pre.DateOfBirth,
			Sex:         pre.Sex,
			CountryCode: pre.CountryCode,
			State:       pre.State,
			City:        pre.City,
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	client := cortex.New(clientID, clientSecret, opts...)
	if err := client.Dial(ctx); err != nil {
		return err
	}
	defer client.Close()

	term := cli.NewTerminal(os.Stdin, os.Stdout)
	return setup.New(client, term, setupOpts).Run(ctx)
}

// resolveCredentials merges the selected context with environment and
// flag overrides. Environment variables win so CI runs never touch the
// config file.
func resolveCredentials() (clientID, clientSecret string, opts []cortex.Option, err error) {
	var cc *cli.Context
	if cfg, cfgErr := loadConfig(); cfgErr == nil {
		// Missing context is only fatal when the environment does not
		// provide credentials either.
		cc, _ = cfg.Context(flagContext)
	} else if flagContext != "" {
		return "", "", nil, cfgErr
	}

	if cc != nil {
		clientID, clientSecret = cc.ClientID, cc.ClientSecret
		if cc.URL != "" {
			opts = append(opts, cortex.WithURL(cc.URL))
		}
		if cc.Timeout > 0 {
			opts = append(opts, cortex.WithTimeout(time.Duration(cc.Timeout)*time.Second))
		}
	}
	if v := os.Getenv("CORTEX_CLIENT_ID"); v != "" {
		clientID = v
	}
	if v := os.Getenv("CORTEX_CLIENT_SECRET"); v != "" {
		clientSecret = v
	}
	if clientID == "" || clientSecret == "" {
		return "", "", nil, fmt.Errorf("no credentials: run `cortexgo configure` or set CORTEX_CLIENT_ID / CORTEX_CLIENT_SECRET")
	}

	if flagURL != "" {
		opts = append(opts, cortex.WithURL(flagURL))
	}
	if flagTimeout > 0 {
		opts = append(opts, cortex.WithTimeout(flagTimeout))
	}
	if flagInsecure {
		opts = append(opts, cortex.WithInsecureTLS())
	}
	return clientID, clientSecret, opts, nil
}
