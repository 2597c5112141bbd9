package execution

import (
	"context"

	"tat/internal/domain"
)

// Job is one unit of work executed on a worker's surface
type Job struct {
	ID    string
	Title string
	run   func(ctx context.Context, r *Runner, s Surface) domain.Result
}

// CaseJob wraps a data-driven case
func CaseJob(tc domain.TestCase) Job {
	return Job{
		ID:    tc.ID,
		Title: tc.Title(),
		run: func(ctx context.Context, r *Runner, s Surface) domain.Result {
			return r.Run(ctx, s, tc)
		},
	}
}

// ScenarioJob wraps a hand-authored scenario
func ScenarioJob(sc Scenario) Job {
	return Job{
		ID:    sc.ID(),
		Title: sc.Title,
		run: func(ctx context.Context, r *Runner, s Surface) domain.Result {
			return r.RunScenario(ctx, s, sc)
		},
	}
}

// Jobs builds the job list: data-driven cases first, then scenarios
func Jobs(cases []domain.TestCase, scenarios []Scenario) []Job {
	jobs := make([]Job, 0, len(cases)+len(scenarios))
	for _, tc := range cases {
		jobs = append(jobs, CaseJob(tc))
	}
	for _, sc := range scenarios {
		jobs = append(jobs, ScenarioJob(sc))
	}
	return jobs
}
