package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Columns maps case fields to column positions of the case table
type Columns struct {
	ID       int `yaml:"id"`
	Scenario int `yaml:"scenario"`
	Input    int `yaml:"input"`
	Expected int `yaml:"expected"`
	Category int `yaml:"category"`
}

// Browser holds browser session settings
type Browser struct {
	Bin               string        `yaml:"bin"`
	ControlURL        string        `yaml:"control_url"`
	Headless          bool          `yaml:"headless"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
}

// Selectors identify the consumed UI surface
type Selectors struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Clear  string `yaml:"clear"`
}

// Timing holds the bounded waits of case execution
type Timing struct {
	AssertTimeout  time.Duration `yaml:"assert_timeout"`
	GracePeriod    time.Duration `yaml:"grace_period"`
	CaptureTimeout time.Duration `yaml:"capture_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
}

// Config holds all configuration for the application
type Config struct {
	// Case settings
	CasesPath        string   `yaml:"cases"`
	HeaderLabel      string   `yaml:"header_label"`
	MinColumns       int      `yaml:"min_columns"`
	Columns          Columns  `yaml:"columns"`
	ReservedPrefixes []string `yaml:"reserved_prefixes"`
	ReservedIDs      []string `yaml:"reserved_ids"`

	// Output settings
	ReportFile string `yaml:"report"`

	// Execution settings
	BaseURL   string    `yaml:"base_url"`
	Workers   int       `yaml:"workers"`
	Browser   Browser   `yaml:"browser"`
	Selectors Selectors `yaml:"selectors"`
	Timing    Timing    `yaml:"timing"`

	// Paths to ignore when scanning
	PathsToIgnore []string `yaml:"paths_to_ignore"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile    string
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
	Verbose       bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		CasesPath:   DefaultCasesPath,
		HeaderLabel: DefaultHeaderLabel,
		MinColumns:  DefaultMinColumns,
		Columns:     DefaultColumns,
		ReportFile:  DefaultReportFile,
		BaseURL:     DefaultBaseURL,
		Workers:     DefaultWorkers,
		Browser: Browser{
			Headless:          true,
			NavigationTimeout: DefaultNavigationTimeout,
		},
		Selectors: Selectors{
			Input:  DefaultInputSelector,
			Output: DefaultOutputSelector,
			Clear:  DefaultClearSelector,
		},
		Timing: Timing{
			AssertTimeout:  DefaultAssertTimeout,
			GracePeriod:    DefaultGracePeriod,
			CaptureTimeout: DefaultCaptureTimeout,
			PollInterval:   DefaultPollInterval,
		},
	}
	cfg.ReservedPrefixes = append([]string(nil), DefaultReservedPrefixes...)
	cfg.ReservedIDs = append([]string(nil), DefaultReservedIDs...)
	cfg.PathsToIgnore = append([]string(nil), DefaultPathsToIgnore...)
	return cfg
}

// Load creates a config from defaults, an optional YAML file, the environment and flags,
// in increasing order of precedence
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if flags.ConfigFile != "" {
		if err := cfg.LoadFile(flags.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(".env"); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, nil
}

// LoadFile merges a YAML config file into c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads the given .env file (if it exists) and applies TAT_* variables
func (c *Config) LoadEnv(envPath string) error {
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}

	if v := os.Getenv("TAT_CASES"); v != "" {
		c.CasesPath = v
	}
	if v := os.Getenv("TAT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TAT_REPORT"); v != "" {
		c.ReportFile = v
	}
	if v := os.Getenv("TAT_BROWSER_BIN"); v != "" {
		c.Browser.Bin = v
	}
	if v := os.Getenv("TAT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TAT_WORKERS %q: %w", v, err)
		}
		c.Workers = n
	}
	if v := os.Getenv("TAT_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid TAT_HEADLESS %q: %w", v, err)
		}
		c.Browser.Headless = b
	}
	return nil
}

// ApplyFlags applies command-line overrides
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.CasesPath != "" {
		c.CasesPath = flags.CasesPath
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.HeadlessSet {
		c.Browser.Headless = flags.Headless
	}
	if flags.BaseURL != "" {
		c.BaseURL = flags.BaseURL
	}
	if flags.ReportFile != "" {
		c.ReportFile = flags.ReportFile
	}
}

// GetReportPath returns the absolute path of the report file.
// Relative names resolve against the working directory.
func (c *Config) GetReportPath() string {
	if abs, err := filepath.Abs(c.ReportFile); err == nil {
		return abs
	}
	return c.ReportFile
}

// GetWorkers returns the number of browser sessions, at least one
func (c *Config) GetWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}
