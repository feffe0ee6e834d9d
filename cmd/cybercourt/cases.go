package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openveritas/cybercourt/internal/ledger"
	"github.com/openveritas/cybercourt/internal/model"
)

func casesCmd() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:          "cases",
		Short:        "Show the mirrored public case ledger",
		Long:         "Render the local mirror of the public case ledger. With --follow, keep the subscription open and re-render on every remote change.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv()
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()

			m := ledger.NewMirror(e.store, func(records []model.CaseRecord) {
				fmt.Print("\n" + ledger.RenderTable(records))
			})
			cached, err := e.store.ListCases(ctx)
			if err != nil {
				return err
			}
			m.Seed(cached)
			fmt.Print(ledger.RenderTable(m.Snapshot()))

			if !follow {
				return nil
			}
			if e.cfg.Ledger.StreamURL == "" {
				return fmt.Errorf("ledger.stream_url is not configured")
			}

			src, err := ledger.DialStream(ctx, e.cfg.Ledger.StreamURL, e.cfg.AppID, e.userID)
			if err != nil {
				return err
			}
			// Stream failures leave the last snapshot on screen; the
			// mirror does not retry.
			return m.Subscribe(ctx, src)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep the subscription open")
	return cmd
}
