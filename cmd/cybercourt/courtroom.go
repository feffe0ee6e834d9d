package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/openveritas/cybercourt/internal/logging"
	"github.com/openveritas/cybercourt/internal/session"
	"github.com/openveritas/cybercourt/internal/tui"
)

func courtroomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "courtroom [case-id]",
		Short:        "Open the interactive courtroom client",
		Long:         "Open the two-view client: flag a post, then follow its courtroom session live. With a case id, jump straight to the courtroom view for that case.",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			e, err := setupEnv()
			if err != nil {
				return err
			}
			defer e.close()

			driver := session.NewDriver(e.backend, e.userID, e.cfg.Backend.PollInterval)
			if len(args) == 1 {
				driver.Bind(args[0])
			}

			// The TUI owns the terminal; logs would corrupt it.
			logging.Redirect(io.Discard)
			program := tea.NewProgram(tui.New(driver), tea.WithAltScreen())
			_, err = program.Run()
			driver.Reset()
			return err
		},
	}
	return cmd
}
