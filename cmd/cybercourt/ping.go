package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "ping",
		Short:        "Check that the courtroom backend is reachable",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.backend.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}
			fmt.Println("backend is up at " + e.cfg.Backend.BaseURL)
			return nil
		},
	}
}
