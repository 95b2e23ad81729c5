package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWriter(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.FlowDB) == "" {
		return errors.New("paths.flow_db must be set")
	}
	return nil
}

func (c *Config) validateWriter() error {
	if c.Writer.Indent < 0 || c.Writer.Indent > maxIndent {
		return fmt.Errorf("writer.indent must be between 0 and %d", maxIndent)
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.Workers <= 0 {
		return errors.New("convert.workers must be positive")
	}
	if strings.ContainsAny(c.Convert.OutputSuffix, `/\`) {
		return errors.New("convert.output_suffix must not contain path separators")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
