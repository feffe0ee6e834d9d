package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openveritas/cybercourt/internal/observer"
)

func observeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:          "observe",
		Short:        "Run the page-observer bridge",
		Long:         "Listen for post sightings from the page-content observer and queue them for flagging.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := setupEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if addr == "" {
				addr = e.cfg.Observer.ListenAddr
			}
			server := observer.NewServer(e.store)
			log.Info().Str("addr", addr).Msg("observer bridge listening")
			return http.ListenAndServe(addr, server.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "listen", "", "listen address (overrides config)")
	return cmd
}
