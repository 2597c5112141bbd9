package cli

import "tat/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile    string
	Verbose       bool
	CasesPath     string
	Filter        string
	Workers       int
	Headless      bool
	HeadlessSet   bool
	BaseURL       string
	ReportFile    string
	FailFast      bool
	OnlyFailed    bool
	OpenFaills    bool
	SkipScenarios bool
	Details       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:    f.ConfigFile,
		CasesPath:     f.CasesPath,
		Filter:        f.Filter,
		Workers:       f.Workers,
		Headless:      f.Headless,
		HeadlessSet:   f.HeadlessSet,
		BaseURL:       f.BaseURL,
		ReportFile:    f.ReportFile,
		FailFast:      f.FailFast,
		OnlyFailed:    f.OnlyFailed,
		OpenFaills:    f.OpenFaills,
		SkipScenarios: f.SkipScenarios,
		Details:       f.Details,
		Verbose:       f.Verbose,
	}
}
