package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pevans/newswatch/monitor"
)

// runFailedError marks a run that completed with failures. Its details were
// already printed and logged.
type runFailedError struct {
	err error
}

func (e *runFailedError) Error() string {
	return e.err.Error()
}

func (e *runFailedError) Unwrap() error {
	return e.err
}

func newRunCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check the listing once and notify new items",
		Long: `Check the listing page once, mail one notification per new item and
record the items that were sent. Exits with status 1 if any item or the
store could not be processed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m, err := a.monitor(dryRun)
			if err != nil {
				return err
			}

			result := m.RunOnce(cmd.Context())
			printResult(os.Stderr, result)

			if err := result.Err(); err != nil {
				return &runFailedError{err: err}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log notifications instead of mailing them")

	return cmd
}

// printResult writes a short run summary.
func printResult(w io.Writer, r *monitor.RunResult) {
	fmt.Fprintf(w, "Run %s completed:\n", r.RunID)
	fmt.Fprintf(w, "  Candidates: %d\n", len(r.Candidates))
	fmt.Fprintf(w, "  New: %d\n", len(r.New))
	fmt.Fprintf(w, "  Notified: %d\n", len(r.Notified))
	fmt.Fprintf(w, "  Failed: %d\n", len(r.Failed))
	fmt.Fprintf(w, "  Saved: %t\n", r.Persisted)

	if r.ListingErr != nil {
		fmt.Fprintf(w, "  Listing error: %v\n", r.ListingErr)
	}
	if r.LoadErr != nil {
		fmt.Fprintf(w, "  Store load error: %v (state not saved)\n", r.LoadErr)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "    - %s: %v\n", f.Identifier, f.Err)
	}
	if r.SaveErr != nil {
		fmt.Fprintf(w, "  Store save error: %v\n", r.SaveErr)
	}
}
