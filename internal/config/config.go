package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// Defaults used when neither a flag nor an environment variable is set.
const (
	DefaultTarget        = 1200
	DefaultMaxPages      = 10
	DefaultPerPage       = 100
	DefaultSleepSeconds  = 2.0
	DefaultCSVOutput     = "data/github_healthcare_repositories.csv"
	DefaultSummaryOutput = "data/github_healthcare_summary.md"
	DefaultNATSSubject   = "healthcare.repositories"

	// MaxPerPage is the largest page size the search API accepts.
	MaxPerPage = 100
)

// Config holds the application configuration
type Config struct {
	Target        int
	MaxPages      int
	PerPage       int
	SleepSeconds  float64
	CSVOutput     string
	SummaryOutput string
	Queries       []string
	APIURL        string
	// NATSUrl enables publishing when set
	NATSUrl     string
	NATSSubject string
	// CronSchedule switches from a single run to scheduled runs when set
	CronSchedule string
	RunOnStartup bool
}

// Load loads configuration from environment variables. It only parses; call
// Validate once flags have been applied on top.
func Load() (*Config, error) {
	cfg := &Config{
		CSVOutput:     os.Getenv("CSV_OUTPUT"),
		SummaryOutput: os.Getenv("SUMMARY_OUTPUT"),
		APIURL:        os.Getenv("GITHUB_API_URL"),
		NATSUrl:       os.Getenv("NATS_URL"),
		NATSSubject:   os.Getenv("NATS_SUBJECT"),
		CronSchedule:  os.Getenv("CRON_SCHEDULE"),
	}

	var err error
	if cfg.Target, err = intEnv("TARGET", DefaultTarget); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = intEnv("MAX_PAGES", DefaultMaxPages); err != nil {
		return nil, err
	}
	if cfg.PerPage, err = intEnv("PER_PAGE", DefaultPerPage); err != nil {
		return nil, err
	}
	if cfg.SleepSeconds, err = floatEnv("SLEEP_SECONDS", DefaultSleepSeconds); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.CSVOutput == "" {
		cfg.CSVOutput = DefaultCSVOutput
	}
	if cfg.SummaryOutput == "" {
		cfg.SummaryOutput = DefaultSummaryOutput
	}
	if cfg.NATSSubject == "" {
		cfg.NATSSubject = DefaultNATSSubject
	}

	if os.Getenv("RUN_ON_STARTUP") == "true" {
		cfg.RunOnStartup = true
	}

	return cfg, nil
}

// Validate checks that the configuration describes a runnable collection.
func (c *Config) Validate() error {
	if c.Target < 1 {
		return fmt.Errorf("target must be at least 1, got %d", c.Target)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max pages must be at least 1, got %d", c.MaxPages)
	}
	if c.PerPage < 1 || c.PerPage > MaxPerPage {
		return fmt.Errorf("per page must be between 1 and %d, got %d", MaxPerPage, c.PerPage)
	}
	if c.SleepSeconds < 0 {
		return fmt.Errorf("sleep must not be negative, got %g", c.SleepSeconds)
	}
	if c.CSVOutput == "" {
		return fmt.Errorf("CSV output path is required")
	}
	if c.SummaryOutput == "" {
		return fmt.Errorf("summary output path is required")
	}
	if c.CronSchedule != "" {
		if _, err := cron.ParseStandard(c.CronSchedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", c.CronSchedule, err)
		}
	}
	return nil
}

// Delay returns the pause between search requests.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.SleepSeconds * float64(time.Second))
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
