package main

import (
	"fmt"
	"os"

	thoughts "github.com/arthur-debert/thoughts/cmd/thoughts"
	"github.com/arthur-debert/thoughts/pkg/ui"
)

func main() {
	rootCmd := thoughts.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
