package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fortitude/internal/config"
	"fortitude/internal/persistence"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the last persisted scheduler snapshot",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&configPath, "config", "fortitude.yaml", "Path to the Fortitude config file")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("fortitude: load config: %w", err)
	}

	state, err := persistence.Load(cfg.Scheduler.PersistenceFile)
	if err != nil {
		return fmt.Errorf("fortitude: load scheduler state: %w", err)
	}

	fmt.Printf("scheduled jobs: %d\n", len(state.ScheduledJobs))
	for _, job := range state.ScheduledJobs {
		fmt.Printf("  - %s (%s, %s) next_run=%d enabled=%v\n",
			job.ID, job.JobType, job.Priority, job.NextRun, job.Enabled)
	}
	return nil
}
