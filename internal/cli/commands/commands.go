package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tat/internal/cli"
	"tat/internal/config"
	"tat/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run    *RunCommand
	List   *ListCommand
	Faills *FaillsCommand
}

// NewCommands creates all commands with dependencies.
// Components that depend on loaded settings are built when a command executes.
func NewCommands(cfg *config.Config, logger *zap.Logger) *Commands {
	formatter := ui.NewFormatter()
	errorViewer := ui.NewErrorViewer()

	return &Commands{
		Run:    NewRunCommand(cfg, logger, formatter, errorViewer),
		List:   NewListCommand(cfg, formatter),
		Faills: NewFaillsCommand(cfg, errorViewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Settings are layered once flags are parsed: defaults, config file, .env, environment, flags
	load := func(cmd *cobra.Command, args []string) error {
		flags.HeadlessSet = cmd.Flags().Changed("headless")
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run transliteration cases in the browser",
		Long:    "Load the case table, drive the transliteration page for every runnable case and the UI scenarios, and write the CSV report",
		RunE:    c.Run.Execute,
		PreRunE: load,
	}
	runCmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Case table (CSV) or a directory of case tables")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter cases by id pattern (supports wildcards, e.g., 'Pos_Fun_*' or '*_00*')")
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "p", 0, "Number of browser pages to run in parallel")
	runCmd.Flags().BoolVar(&flags.Headless, "headless", true, "Run the browser without a window")
	runCmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "URL of the transliteration app")
	runCmd.Flags().StringVarP(&flags.ReportFile, "report", "o", "", "Path of the CSV report")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first case failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only cases that failed in the last report")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	runCmd.Flags().BoolVar(&flags.SkipScenarios, "skip-scenarios", false, "Run only the cases from the case table")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List runnable cases",
		Long:    "Load the case table and list the runnable cases grouped by coverage category, without opening a browser",
		RunE:    c.List.Execute,
		PreRunE: load,
	}
	listCmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Case table (CSV) or a directory of case tables")
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter cases by id pattern (supports wildcards, e.g., 'Pos_Fun_*' or '*_00*')")
	listCmd.Flags().BoolVarP(&flags.Details, "details", "d", false, "Show input and expected output of every case")
	listCmd.Flags().BoolVar(&flags.SkipScenarios, "skip-scenarios", false, "Do not list the UI scenarios")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:     "faills",
		Short:   "View case failures interactively",
		Long:    "Display the failed rows of the last report in an interactive viewer",
		RunE:    c.Faills.Execute,
		PreRunE: load,
	}
	faillsCmd.Flags().StringVarP(&flags.ReportFile, "report", "o", "", "Path of the CSV report")
	rootCmd.AddCommand(faillsCmd)
}
