package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newSeenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seen",
		Short: "Inspect the seen store",
	}

	var format string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print every identifier already notified, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.store()
			if err != nil {
				return err
			}

			set, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load seen store: %w", err)
			}

			return printSeen(cmd.OutOrStdout(), set.Sorted(), format)
		},
	}
	list.Flags().StringVar(&format, "format", "table", "output format (table or json)")

	cmd.AddCommand(list)
	return cmd
}

// printSeen writes ids as one per line or as a JSON array.
func printSeen(w io.Writer, ids []string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if ids == nil {
			ids = []string{}
		}
		return enc.Encode(ids)
	case "table", "":
		if len(ids) == 0 {
			fmt.Fprintln(w, "No items seen yet.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(w, id)
		}
		fmt.Fprintf(w, "\n%d items\n", len(ids))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}
