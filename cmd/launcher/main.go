package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "oldphotos",
	Short:         "Desktop launcher for the oldphotos restoration studio",
	Long:          "Start the photo-restoration service core, wait for it to become ready, and open the desktop window on its UI.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLaunch,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var fe *fatalError
		if errors.As(err, &fe) {
			os.Exit(fe.code)
		}
		os.Exit(1)
	}
}
