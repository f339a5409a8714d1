package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage player status requests",
	}

	cmd.AddCommand(newStatusRequestCmd())
	cmd.AddCommand(newStatusApproveCmd())
	cmd.AddCommand(newStatusDenyCmd())
	cmd.AddCommand(newStatusPendingCmd())
	cmd.AddCommand(newStatusExpireCmd())

	return cmd
}

func newStatusRequestCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "request <player-id> <rest|leave>",
		Short: "Submit a rest or leave request for a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"device_id": cfg.DeviceID,
				"action":    args[1],
				"reason":    reason,
			}

			var result SubmitStatusResult
			if err := client.Post("/api/v1/players/"+url.PathEscape(args[0])+"/status", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Optional reason for the request")

	return cmd
}

func newStatusApproveCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending request (organizer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveRequest(args[0], true, reason)
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Optional resolution reason")

	return cmd
}

func newStatusDenyCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "deny <request-id>",
		Short: "Deny a pending request (organizer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveRequest(args[0], false, reason)
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Optional resolution reason")

	return cmd
}

func resolveRequest(requestID string, approved bool, reason string) error {
	body := map[string]any{
		"device_id": cfg.DeviceID,
		"approved":  approved,
		"reason":    reason,
	}

	var result Player
	if err := client.Put("/api/v1/players/approve/"+url.PathEscape(requestID), body, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newStatusPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <code>",
		Short: "List unresolved requests for a session (organizer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/players/pending/" + url.PathEscape(args[0]) + "?device_id=" + url.QueryEscape(cfg.DeviceID)

			var result []PendingRequest
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatusExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire <player-id>",
		Short: "Trigger rest expiration for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Post("/api/v1/players/expire-rest/"+url.PathEscape(args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
