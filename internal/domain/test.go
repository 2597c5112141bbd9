package domain

// TestCase represents one row of the case table
type TestCase struct {
	ID       string // Unique per run, used as report key and job name prefix
	Scenario string // Free-text description
	Input    string // Text fed to the application
	Expected string // Text (or substring) expected in the output
	Category string // Coverage tag
}

// Title returns the job name used for a data-driven case
func (tc TestCase) Title() string {
	return tc.ID + ": " + tc.Scenario
}

// Runnable reports whether the case takes part in automated execution
func (tc TestCase) Runnable() bool {
	return tc.Input != ""
}
