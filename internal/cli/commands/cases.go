package commands

import (
	"fmt"

	"tat/internal/config"
	"tat/internal/discovery"
	"tat/internal/domain"
	"tat/internal/execution"
)

// loadCases returns the runnable cases of every case table under the configured path
func loadCases(cfg *config.Config) ([]domain.TestCase, error) {
	scanner := discovery.NewScanner(cfg.PathsToIgnore, cfg.ReportFile)
	tables, err := scanner.Scan(cfg.CasesPath)
	if err != nil {
		return nil, err
	}

	cases, err := discovery.NewParser(cfg).LoadAll(tables)
	if err != nil {
		return nil, fmt.Errorf("load cases: %w", err)
	}

	filter := discovery.NewFilter(cfg.ReservedPrefixes, cfg.ReservedIDs)
	return filter.FilterByID(filter.Runnable(cases), cfg.Flags.Filter), nil
}

// selectScenarios returns the UI scenarios matching the id filter
func selectScenarios(cfg *config.Config) []execution.Scenario {
	if cfg.Flags.SkipScenarios {
		return nil
	}
	var selected []execution.Scenario
	for _, sc := range execution.Scenarios() {
		if discovery.MatchID(sc.ID(), cfg.Flags.Filter) {
			selected = append(selected, sc)
		}
	}
	return selected
}
