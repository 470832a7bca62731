package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpeech()
	c.normalizeVerdict()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpeech() {
	if c.Speech.APIKey == "" {
		if value, ok := os.LookupEnv("VERITY_SPEECH_API_KEY"); ok {
			c.Speech.APIKey = value
		}
	}
	c.Speech.APIKey = strings.TrimSpace(c.Speech.APIKey)
	c.Speech.BaseURL = strings.TrimRight(strings.TrimSpace(c.Speech.BaseURL), "/")
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Language = strings.TrimSpace(c.Speech.Language)
	if c.Speech.Language == "" {
		c.Speech.Language = defaultSpeechLanguage
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
}

func (c *Config) normalizeVerdict() {
	if c.Verdict.APIKey == "" {
		if value, ok := os.LookupEnv("VERITY_VERDICT_API_KEY"); ok {
			c.Verdict.APIKey = value
		}
	}
	c.Verdict.APIKey = strings.TrimSpace(c.Verdict.APIKey)
	c.Verdict.BaseURL = strings.TrimRight(strings.TrimSpace(c.Verdict.BaseURL), "/")
	if c.Verdict.BaseURL == "" {
		c.Verdict.BaseURL = defaultVerdictBaseURL
	}
	c.Verdict.Model = strings.TrimSpace(c.Verdict.Model)
	if c.Verdict.Model == "" {
		c.Verdict.Model = defaultVerdictModel
	}
	if c.Verdict.TimeoutSeconds <= 0 {
		c.Verdict.TimeoutSeconds = defaultVerdictTimeout
	}
	if c.Verdict.MaxSentences <= 0 {
		c.Verdict.MaxSentences = defaultVerdictMaxSentences
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
