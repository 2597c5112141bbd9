package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tat/internal/config"
	"tat/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cases, err := loadCases(lc.config)
	if err != nil {
		return err
	}

	var titles []string
	for _, sc := range selectScenarios(lc.config) {
		titles = append(titles, sc.Title)
	}

	if len(cases) == 0 && len(titles) == 0 {
		color.Yellow("No cases found")
		return nil
	}

	lc.formatter.PrintCaseList(cases, titles, lc.config.Flags.Details)
	return nil
}
