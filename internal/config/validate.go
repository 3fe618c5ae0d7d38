package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"subfit/internal/language"
	"subfit/internal/retime"
)

// Validate ensures the configuration is usable. The transcription API key is
// not required here; commands that call the service check it themselves.
func (c *Config) Validate() error {
	if err := c.validateResegment(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateResegment() error {
	if c.Resegment.MaxWidth < 1 {
		return fmt.Errorf("resegment.max_width must be positive, got %d", c.Resegment.MaxWidth)
	}
	if _, err := retime.ParsePolicy(c.Resegment.TimingPolicy); err != nil {
		return fmt.Errorf("resegment.timing_policy: %w", err)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	parsed, err := url.Parse(c.Transcription.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("transcription.base_url must be an absolute URL, got %q", c.Transcription.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("transcription.base_url must use http or https, got %q", parsed.Scheme)
	}
	if _, ok := language.Normalize(c.Transcription.Language); !ok {
		return fmt.Errorf("transcription.language must be an ISO 639-1 code or language name, got %q", c.Transcription.Language)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if strings.ContainsAny(c.Media.BurnSuffix, `/\`) {
		return errors.New("media.burn_suffix must not contain path separators")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
