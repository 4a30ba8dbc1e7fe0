package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug switches to development logging.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "newswatch",
		Short: "Watch a news listing page and mail every new item",
		Long: `newswatch fetches a listing page, finds the items it has not reported
yet, mails one notification per item and remembers what it sent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is $NEWSWATCH_CONFIG or ./newswatch.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable development logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newswatch version %s\n", version)
		},
	})

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newSeenCommand())
}
