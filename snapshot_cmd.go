package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hubdeck/internal/logging"
	"hubdeck/internal/persist"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or remove the saved layout",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved layout as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdapter(cmd, func(a *persist.Adapter) error {
			snap, ok, err := a.Read(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No layout saved under %s.\n", a.Key())
				return nil
			}
			return printJSON(cmd.OutOrStdout(), snap)
		})
	},
}

var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdapter(cmd, func(a *persist.Adapter) error {
			if err := a.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", a.Key())
			return nil
		})
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// withAdapter opens the configured store for the duration of fn.
func withAdapter(cmd *cobra.Command, fn func(*persist.Adapter) error) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(persist.New(store,
		persist.WithKey(cfg.Persist.Key),
		persist.WithLogger(logging.NewNop()),
	))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
