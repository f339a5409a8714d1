package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Manage matches",
	}

	cmd.AddCommand(newMatchStartCmd())
	cmd.AddCommand(newMatchCompleteCmd())

	return cmd
}

func newMatchStartCmd() *cobra.Command {
	var players []string

	cmd := &cobra.Command{
		Use:   "start <code>",
		Short: "Start a match in a session (organizer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(players) == 0 {
				return fmt.Errorf("--player is required at least once")
			}

			body := map[string]any{
				"device_id":  cfg.DeviceID,
				"player_ids": players,
			}

			var result Match
			if err := client.Post("/api/v1/sessions/"+url.PathEscape(args[0])+"/matches", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&players, "player", "p", nil, "Player id to include (repeatable)")

	return cmd
}

func newMatchCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <match-id>",
		Short: "Complete a match (organizer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"device_id": cfg.DeviceID,
			}

			var result Match
			if err := client.Post("/api/v1/matches/"+url.PathEscape(args[0])+"/complete", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
