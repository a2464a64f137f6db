// Package main is the entry point for the cortexgo CLI.
//
// Usage:
//
//	cortexgo [flags] <command> [args]
//
// Commands:
//
//	run        - Connect to Cortex and walk the session setup workflow
//	configure  - Store application credentials in a named context
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/jamesmcaleer/cortexgo/cmd/cortexgo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
