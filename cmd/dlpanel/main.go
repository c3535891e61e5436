package main

import (
	"fmt"
	"os"

	"github.com/ameistad/dlpanel/internal/dlpanel"
)

func main() {
	rootCmd := dlpanel.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print error once, then exit
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
