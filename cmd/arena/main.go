// Package main is the prompt-arena command line client.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hpn/prompt-arena/internal/security"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ece *exitCodeError
		if errors.As(err, &ece) {
			if ece.msg != "" {
				fmt.Fprintln(os.Stderr, security.Redact(ece.msg))
			}
			os.Exit(ece.code)
		}
		fmt.Fprintln(os.Stderr, security.Redact(err.Error()))
		os.Exit(ExitInvalidArgs)
	}
}
