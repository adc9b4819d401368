package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Statistics commands",
	}

	cmd.AddCommand(newStatsPlayerCmd())
	cmd.AddCommand(newStatsGlobalCmd())
	cmd.AddCommand(newStatsUploadCmd())

	return cmd
}

func newStatsPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <uuid> [namespace]",
		Short: "Get a player's projected stats, optionally for one namespace",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if len(args) == 2 {
				var result StatValues
				if err := client.Get(fmt.Sprintf("/api/v1/players/%s/stats/%s", args[0], args[1]), &result); err != nil {
					return err
				}
				out.Print(result)
				return nil
			}

			var result NamespacedStats
			if err := client.Get(fmt.Sprintf("/api/v1/players/%s/stats", args[0]), &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}
}

func newStatsGlobalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global <namespace>",
		Short: "Get a namespace's global stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatValues
			if err := client.Get("/api/v1/stats/global/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <bundle.json>",
		Short: "Upload a stats bundle from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read bundle: %w", err)
			}

			// Re-decode so malformed files fail locally with a useful error
			var bundle map[string]any
			if err := json.Unmarshal(data, &bundle); err != nil {
				return fmt.Errorf("invalid bundle JSON: %w", err)
			}

			if err := client.Post("/api/v1/stats/upload", bundle, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Bundle uploaded")
			return nil
		},
	}
}
