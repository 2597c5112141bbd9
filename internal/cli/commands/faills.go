package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tat/internal/config"
	"tat/internal/domain"
	"tat/internal/report"
	"tat/internal/storage"
	"tat/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	config *config.Config
	viewer ui.Viewer
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(cfg *config.Config, viewer ui.Viewer) *FaillsCommand {
	return &FaillsCommand{
		config: cfg,
		viewer: viewer,
	}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := report.LoadResults(storage.NewCSVStorage(fc.config.GetReportPath()))
	if err != nil {
		return fmt.Errorf("no report found, run the cases first: %w", err)
	}

	var failures []domain.Result
	for _, res := range results {
		if !res.Passed() {
			failures = append(failures, res)
		}
	}

	if len(failures) == 0 {
		color.Green("✓ No failures in the last run")
		return nil
	}

	return fc.viewer.View(failures)
}
