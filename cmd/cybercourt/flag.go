package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openveritas/cybercourt/internal/session"
)

func flagCmd() *cobra.Command {
	var (
		content    string
		link       string
		victim     string
		victimAddr string
		observedID int64
	)
	cmd := &cobra.Command{
		Use:          "flag",
		Short:        "Flag a post for initial cyber-law analysis",
		Long:         "Submit a post to the backend for initial analysis. With --observed, flag a post previously captured by the page observer.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv()
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()

			if observedID != 0 {
				posts, err := e.store.PendingObservedPosts(ctx)
				if err != nil {
					return err
				}
				found := false
				for _, p := range posts {
					if p.ID == observedID {
						content = p.Content
						link = p.SourceURL
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("observed post %s not found or already flagged", strconv.FormatInt(observedID, 10))
				}
			}

			driver := session.NewDriver(e.backend, e.userID, e.cfg.Backend.PollInterval)
			outcome, err := driver.FlagPost(ctx, session.FlagInput{
				Content:       content,
				Link:          link,
				VictimInfo:    victim,
				VictimAddress: victimAddr,
			})
			if err != nil {
				_ = e.store.AppendActivity(ctx, time.Now(), "flagging failed: "+err.Error(), true)
				return err
			}
			_ = e.store.AppendActivity(ctx, time.Now(), outcome.Message, false)
			if observedID != 0 {
				if err := e.store.MarkObservedPostFlagged(ctx, observedID); err != nil {
					log.Warn().Err(err).Msg("mark observed post flagged")
				}
			}

			fmt.Println(outcome.Message)
			if outcome.ViolationDetected {
				fmt.Printf("case %s is ready for a courtroom session: cybercourt courtroom %s\n", outcome.CaseID, outcome.CaseID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "post content")
	cmd.Flags().StringVar(&link, "link", "", "post link")
	cmd.Flags().StringVar(&victim, "victim", "", "victim info")
	cmd.Flags().StringVar(&victimAddr, "victim-address", "", "victim ETH address (0x...)")
	cmd.Flags().Int64Var(&observedID, "observed", 0, "flag a captured post by id")
	return cmd
}
