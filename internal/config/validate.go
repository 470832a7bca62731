package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Service API keys are not
// required here: the speech and verdict adapters enforce their own
// credentials at construction so read-only commands keep working without
// them.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVerdict(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.ScratchDir == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	return nil
}

func (c *Config) validateVerdict() error {
	if c.Verdict.MaxSentences < 1 {
		return errors.New("verdict.max_sentences must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
