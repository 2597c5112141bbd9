package config

import "time"

const (
	// DefaultCasesPath is the default case table (or directory of tables)
	DefaultCasesPath = "IT23359888_TestCases.csv"
	// DefaultReportFile is the default report written to the working directory
	DefaultReportFile = "test_results.csv"
	// DefaultBaseURL is the application under test
	DefaultBaseURL = "https://www.swifttranslator.com/"
	// DefaultWorkers is the default number of browser sessions
	DefaultWorkers = 1

	// DefaultInputSelector selects the input surface (first match wins)
	DefaultInputSelector = "textarea"
	// DefaultOutputSelector selects the output surface
	DefaultOutputSelector = "div.bg-slate-50.whitespace-pre-wrap"
	// DefaultClearSelector selects the clear-action control by its accessibility label
	DefaultClearSelector = `button[aria-label="Clear"]`

	// DefaultHeaderLabel is the first header column of the case table
	DefaultHeaderLabel = "TC ID"
	// DefaultMinColumns is the column count a row must exceed to be a case
	DefaultMinColumns = 5
)

const (
	DefaultAssertTimeout     = 15 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultGracePeriod       = 2 * time.Second
	DefaultCaptureTimeout    = 5 * time.Second
	DefaultPollInterval      = 100 * time.Millisecond
)

// DefaultColumns is the fixed column mapping of the case table
var DefaultColumns = Columns{
	ID:       0,
	Scenario: 1,
	Input:    3,
	Expected: 4,
	Category: 8,
}

// DefaultReservedPrefixes are id prefixes owned by hand-authored scenarios
var DefaultReservedPrefixes = []string{"Pos_UI"}

// DefaultReservedIDs are ids owned by hand-authored scenarios
var DefaultReservedIDs = []string{"Neg_UI_0001"}

// DefaultPathsToIgnore are the default directories to ignore when scanning for case tables
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"playwright-report",
	"test-results",
}
