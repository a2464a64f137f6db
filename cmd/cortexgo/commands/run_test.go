package commands

import (
	"path/filepath"
	"testing"

	"github.com/jamesmcaleer/cortexgo/pkg/cli"
)

func resetCommandState(t *testing.T) {
	t.Helper()
	prevConfig, prevContext := flagConfigPath, flagContext
	prevURL, prevTimeout := flagURL, flagTimeout
	globalConfig = nil
	t.Cleanup(func() {
		flagConfigPath, flagContext = prevConfig, prevContext
		flagURL, flagTimeout = prevURL, prevTimeout
		globalConfig = nil
	})
}

func TestResolveCredentialsFromEnv(t *testing.T) {
	resetCommandState(t)
	flagConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CORTEX_CLIENT_ID", "env-id")
	t.Setenv("CORTEX_CLIENT_SECRET", "env-secret")

	id, secret, _, err := resolveCredentials()
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if id != "env-id" || secret != "env-secret" {
		t.Fatalf("got %q/%q, want env credentials", id, secret)
	}
}

func TestResolveCredentialsFromContext(t *testing.T) {
	resetCommandState(t)
	flagConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CORTEX_CLIENT_ID", "")
	t.Setenv("CORTEX_CLIENT_SECRET", "")

	cfg, err := cli.LoadConfig(flagConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetContext(&cli.Context{
		Name:         "default",
		ClientID:     "ctx-id",
		ClientSecret: "ctx-secret",
		Timeout:      5,
	})
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	id, secret, opts, err := resolveCredentials()
	if err != nil {
		t.Fatalf("resolveCredentials: %v", err)
	}
	if id != "ctx-id" || secret != "ctx-secret" {
		t.Fatalf("got %q/%q, want context credentials", id, secret)
	}
	// insecure default plus the context timeout
	if len(opts) < 2 {
		t.Fatalf("expected timeout and TLS options, got %d", len(opts))
	}
}

func TestResolveCredentialsMissing(t *testing.T) {
	resetCommandState(t)
	flagConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CORTEX_CLIENT_ID", "")
	t.Setenv("CORTEX_CLIENT_SECRET", "")

	if _, _, _, err := resolveCredentials(); err == nil {
		t.Fatal("expected error with no context and no env credentials")
	}
}
