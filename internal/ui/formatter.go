package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tat/internal/domain"
)

const uncategorized = "(uncategorized)"

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter() *Formatter {
	return &Formatter{out: os.Stdout}
}

// NewFormatterTo creates a Formatter writing to w
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{out: w}
}

// PrintMetaStats displays the statistics of a finished run
func (f *Formatter) PrintMetaStats(summary domain.RunSummary) {
	fmt.Fprintln(f.out)
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Case Execution Statistics")
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20},
		{Number: 2, Align: text.AlignRight, WidthMin: 27},
	})

	t.AppendRow(table.Row{"Run ID", summary.RunID})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Total Cases", summary.Total})
	t.AppendRow(table.Row{"Passed", color.GreenString("%d", summary.Passed)})
	t.AppendRow(table.Row{"Failed", color.RedString("%d", summary.Failed)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Duration", fmt.Sprintf("%.2fs", summary.Duration.Seconds())})
	t.AppendRow(table.Row{"Workers", summary.Workers})
	t.AppendRow(table.Row{"Started", summary.StartedAt.Format("2006-01-02 15:04:05")})
	t.AppendRow(table.Row{"Report", summary.ReportPath})
	t.Render()

	fmt.Fprintln(f.out)
	switch {
	case summary.Status == domain.RunInterrupted:
		fmt.Fprintln(f.out, color.YellowString("! Run interrupted after %d case(s)", summary.Passed+summary.Failed))
	case summary.Failed == 0:
		fmt.Fprintln(f.out, color.GreenString("✓ All cases passed!"))
	default:
		fmt.Fprintln(f.out, color.RedString("✗ %d case(s) failed", summary.Failed))
		fmt.Fprintln(f.out)
		f.printFailedTree(summary.Failures)
	}
}

// printFailedTree prints failed cases grouped by coverage category
func (f *Formatter) printFailedTree(failures []domain.Result) {
	if len(failures) == 0 {
		return
	}

	groups, keys := groupResults(failures)
	for i, key := range keys {
		isLastGroup := i == len(keys)-1
		connector, childPrefix := "├── ", "│   "
		if isLastGroup {
			connector, childPrefix = "└── ", "    "
		}
		fmt.Fprintln(f.out, color.CyanString("%s%s", connector, key))

		for j, res := range groups[key] {
			caseConnector := "├── "
			if j == len(groups[key])-1 {
				caseConnector = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s %s\n", childPrefix, caseConnector,
				color.YellowString(res.ID), color.RedString("(%s)", res.Remarks))
		}
	}
}

func groupResults(results []domain.Result) (map[string][]domain.Result, []string) {
	groups := make(map[string][]domain.Result)
	for _, res := range results {
		key := res.Category
		if key == "" {
			key = uncategorized
		}
		groups[key] = append(groups[key], res)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return groups, keys
}

// PrintCaseList prints runnable cases grouped by coverage category, then the scenarios.
// With details, input and expected output are shown under each case.
func (f *Formatter) PrintCaseList(cases []domain.TestCase, scenarios []string, showDetails bool) {
	groups := make(map[string][]domain.TestCase)
	for _, tc := range cases {
		key := tc.Category
		if key == "" {
			key = uncategorized
		}
		groups[key] = append(groups[key], tc)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(f.out, color.GreenString("Found %d case(s) in %d categor(ies):\n", len(cases), len(keys)))

	for i, key := range keys {
		isLastGroup := i == len(keys)-1
		connector, childPrefix := "├── ", "│   "
		if isLastGroup {
			connector, childPrefix = "└── ", "    "
		}
		fmt.Fprintln(f.out, color.CyanString("%s%s (%d)", connector, key, len(groups[key])))

		for j, tc := range groups[key] {
			isLastCase := j == len(groups[key])-1
			caseConnector, detailPrefix := "├── ", "│   "
			if isLastCase {
				caseConnector, detailPrefix = "└── ", "    "
			}
			fmt.Fprintf(f.out, "%s%s%s %s\n", childPrefix, caseConnector, color.YellowString(tc.ID), tc.Scenario)

			if showDetails {
				fmt.Fprintf(f.out, "%s%sinput:    %s\n", childPrefix, detailPrefix, oneLine(tc.Input))
				fmt.Fprintf(f.out, "%s%sexpected: %s\n", childPrefix, detailPrefix, oneLine(tc.Expected))
			}
		}

		// Add spacing between groups (except for the last one)
		if !isLastGroup {
			fmt.Fprintln(f.out)
		}
	}

	if len(scenarios) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, color.GreenString("Hand-authored scenarios:"))
		for i, title := range scenarios {
			connector := "├── "
			if i == len(scenarios)-1 {
				connector = "└── "
			}
			fmt.Fprintf(f.out, "%s%s\n", connector, color.MagentaString(title))
		}
	}
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", "⏎")
}
