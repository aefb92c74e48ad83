package main

import (
	"fmt"
	"time"

	"github.com/oldphotos/launcher/internal/health"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the service status endpoint once",
	Long:  "Perform a single readiness probe against the running service and report the result. Exits non-zero when the service is not answering.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig()
	if err != nil {
		return err
	}

	probe := health.Config{
		Port:     cfg.Port,
		Path:     cfg.StatusPath,
		Interval: cfg.PollInterval.Duration,
		Timeout:  2 * time.Second,
	}
	if err := health.Check(cmd.Context(), probe); err != nil {
		return fmt.Errorf("service at %s is not ready: %w", cfg.StatusURL(), err)
	}

	fmt.Printf("OK    %s\n", cfg.StatusURL())
	return nil
}
