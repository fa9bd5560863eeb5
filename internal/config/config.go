package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/allocator"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/escalation"
)

// Default pass cadences used when the config file leaves them unset
const (
	DefaultSLACadence        = "FREQ=MINUTELY;INTERVAL=30"
	DefaultReminderCadence   = "FREQ=HOURLY"
	DefaultStaleSweepCadence = "FREQ=DAILY"
)

// EscalationConfig tunes the overdue-escalation ladder. Hour fields left at
// zero fall back to the standard 2/4/8/24 ladder.
type EscalationConfig struct {
	Tier1Hours      int `yaml:"tier1Hours,omitempty" validate:"omitempty,min=1"`
	Tier2Hours      int `yaml:"tier2Hours,omitempty" validate:"omitempty,min=1"`
	Tier3Hours      int `yaml:"tier3Hours,omitempty" validate:"omitempty,min=1"`
	Tier4Hours      int `yaml:"tier4Hours,omitempty" validate:"omitempty,min=1"`
	StaleDraftHours int `yaml:"staleDraftHours,omitempty" validate:"omitempty,min=1"`
	ScanLimit       int `yaml:"scanLimit,omitempty" validate:"omitempty,min=1"`
}

// CadenceConfig holds the recurrence rules driving the daemon's periodic
// passes, in RRULE syntax
type CadenceConfig struct {
	SLACheck      string `yaml:"slaCheck,omitempty"`
	StaleSweep    string `yaml:"staleSweep,omitempty"`
	ReminderSweep string `yaml:"reminderSweep,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL         string                    `yaml:"databaseURL,omitempty"`
	ConflictRadiusKm    float64                   `yaml:"conflictRadiusKm,omitempty" validate:"omitempty,gt=0"`
	ResultLimit         int                       `yaml:"resultLimit,omitempty" validate:"omitempty,min=1"`
	ScoringWeights      *allocator.ScoringWeights `yaml:"scoringWeights,omitempty"`
	Escalation          EscalationConfig          `yaml:"escalation,omitempty"`
	Cadences            CadenceConfig             `yaml:"cadences,omitempty"`
	NotifyRatePerMinute int                       `yaml:"notifyRatePerMinute,omitempty" validate:"omitempty,min=1"`
	Roster              map[string][]string       `yaml:"roster,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from coverage_scheduler.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory. A missing file yields an all-defaults Config.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return &Config{}, nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks cadence rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	cadences := map[string]string{
		"slaCheck":      cfg.Cadences.SLACheck,
		"staleSweep":    cfg.Cadences.StaleSweep,
		"reminderSweep": cfg.Cadences.ReminderSweep,
	}
	for name, rule := range cadences {
		if rule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in cadences.%s: %w", name, err)
		}
	}

	eh := cfg.Escalation
	if eh.Tier1Hours != 0 || eh.Tier2Hours != 0 || eh.Tier3Hours != 0 || eh.Tier4Hours != 0 {
		if !(eh.Tier1Hours < eh.Tier2Hours && eh.Tier2Hours < eh.Tier3Hours && eh.Tier3Hours < eh.Tier4Hours) {
			return fmt.Errorf("escalation tier hours must be strictly increasing (got %d/%d/%d/%d)",
				eh.Tier1Hours, eh.Tier2Hours, eh.Tier3Hours, eh.Tier4Hours)
		}
	}

	return nil
}

// Weights returns the configured scoring weights, defaulted when unset
func (c *Config) Weights() allocator.ScoringWeights {
	if c.ScoringWeights == nil {
		return allocator.DefaultScoringWeights()
	}
	return *c.ScoringWeights
}

// Ladder returns the configured escalation ladder, defaulted when unset
func (c *Config) Ladder() escalation.Ladder {
	if c.Escalation.Tier1Hours == 0 {
		return escalation.DefaultLadder()
	}
	return escalation.Ladder{
		Tier1: time.Duration(c.Escalation.Tier1Hours) * time.Hour,
		Tier2: time.Duration(c.Escalation.Tier2Hours) * time.Hour,
		Tier3: time.Duration(c.Escalation.Tier3Hours) * time.Hour,
		Tier4: time.Duration(c.Escalation.Tier4Hours) * time.Hour,
	}
}

// StaleDraftAge returns how long a draft may sit before the reminder sweep
// picks it up. Zero means the engine default.
func (c *Config) StaleDraftAge() time.Duration {
	return time.Duration(c.Escalation.StaleDraftHours) * time.Hour
}

// SLACadence returns the recurrence rule for the overdue-escalation pass
func (c *Config) SLACadence() string {
	if c.Cadences.SLACheck == "" {
		return DefaultSLACadence
	}
	return c.Cadences.SLACheck
}

// ReminderCadence returns the recurrence rule for the reminder pass
func (c *Config) ReminderCadence() string {
	if c.Cadences.ReminderSweep == "" {
		return DefaultReminderCadence
	}
	return c.Cadences.ReminderSweep
}

// StaleSweepCadence returns the recurrence rule for the stale-draft sweep
func (c *Config) StaleSweepCadence() string {
	if c.Cadences.StaleSweep == "" {
		return DefaultStaleSweepCadence
	}
	return c.Cadences.StaleSweep
}

// findConfigFile searches for coverage_scheduler.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "coverage_scheduler.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
