package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player profile commands",
	}

	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerSetUsernameCmd())

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <uuid>",
		Short: "Get a player's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get("/api/v1/players/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerSetUsernameCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "set-username <uuid>",
		Short: "Set a player's username, creating the profile if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}

			req := map[string]string{"username": username}
			if err := client.Put("/api/v1/players/"+args[0], req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Username updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to set (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
