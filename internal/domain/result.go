package domain

import "time"

// Status is the outcome of a single case
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Kind tells data-driven cases from hand-authored scenarios
type Kind int

const (
	KindCase Kind = iota
	KindScenario
)

// Result represents the outcome of executing a case or a hand-authored scenario
type Result struct {
	ID           string
	Name         string
	Input        string
	Expected     string
	ActualOutput string
	Status       Status
	Remarks      string
	Category     string
	Kind         Kind

	Err      error         // Fault raised while executing, nil on success
	Duration time.Duration // Time taken to execute
	Worker   int           // Worker that executed the job
}

// NewResult creates a result pre-filled with the case's metadata
func NewResult(tc TestCase) Result {
	return Result{
		ID:       tc.ID,
		Name:     tc.Scenario,
		Input:    tc.Input,
		Expected: tc.Expected,
		Category: tc.Category,
	}
}

// Passed reports whether the result is a pass
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// StatusOf maps a job fault to its status
func StatusOf(err error) Status {
	if err != nil {
		return StatusFail
	}
	return StatusPass
}

// RunStatus is the overall status of a run
type RunStatus string

const (
	RunPassed      RunStatus = "passed"
	RunFailed      RunStatus = "failed"
	RunInterrupted RunStatus = "interrupted"
)

// RunSummary contains metadata about a finished run
type RunSummary struct {
	RunID      string
	Total      int
	Passed     int
	Failed     int
	Duration   time.Duration
	StartedAt  time.Time
	ReportPath string
	Workers    int
	Status     RunStatus
	Failures   []Result
}
