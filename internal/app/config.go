package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/keepaway/internal/runconfig"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath  string `validate:"required"`
	ConfigPath string

	Rounds        int    `validate:"gte=0"`
	Relief        uint64 `validate:"gte=1"`
	Snapshots     []int  `validate:"dive,gte=1"`
	SnapshotEvery int    `validate:"gte=0"`

	Format string `validate:"oneof=text json yaml"`
	Top    int    `validate:"gte=1"`
	Color  string `validate:"oneof=auto always never"`

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`

	PublishURL     string        `validate:"omitempty,url"`
	PublishEvent   string        `validate:"omitempty,printascii"`
	PublishTimeout time.Duration `validate:"gte=0"`
}

// DefaultConfig returns the built-in defaults. InputPath is left empty.
func DefaultConfig() Config {
	return Config{
		Rounds:         runconfig.Presets["inspection"],
		Relief:         1,
		Snapshots:      []int{1, 20},
		SnapshotEvery:  1000,
		Format:         "text",
		Top:            2,
		Color:          "auto",
		LogFormat:      "text",
		LogLevel:       "info",
		PublishEvent:   "round",
		PublishTimeout: 10 * time.Second,
	}
}

// ApplySettings overrides c with every value the run file sets.
func (c *Config) ApplySettings(s *runconfig.Settings) {
	if s == nil {
		return
	}
	if s.Rounds != nil {
		c.Rounds = *s.Rounds
	}
	if s.Relief != nil {
		c.Relief = *s.Relief
	}
	if s.Snapshots != nil {
		c.Snapshots = append([]int(nil), (*s.Snapshots)...)
	}
	if s.SnapshotEvery != nil {
		c.SnapshotEvery = *s.SnapshotEvery
	}
	if s.Format != nil {
		c.Format = *s.Format
	}
	if s.Top != nil {
		c.Top = *s.Top
	}
	if s.PublishURL != nil {
		c.PublishURL = *s.PublishURL
	}
	if s.PublishEvent != nil {
		c.PublishEvent = *s.PublishEvent
	}
	if s.PublishTimeout != nil {
		c.PublishTimeout = *s.PublishTimeout
	}
}

var validate = validator.New()

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, describeValidation(err)
	}
	return &cfg, nil
}

// describeValidation turns validator errors into a single readable error.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is a required configuration field and cannot be empty", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed the %q check (value %v)", fe.Field(), fe.ActualTag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
