package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at release time.
var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cybercourt version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("cybercourt " + version)
		},
	}
}
