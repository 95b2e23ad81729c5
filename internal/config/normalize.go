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
	c.normalizeConvert()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if value, ok := os.LookupEnv("ADMKIT_FLOW_DB"); ok && strings.TrimSpace(value) != "" {
		c.Paths.FlowDB = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.FlowDB) == "" {
		c.Paths.FlowDB = defaultFlowDB
	}
	if c.Paths.FlowDB, err = expandPath(c.Paths.FlowDB); err != nil {
		return fmt.Errorf("paths.flow_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeConvert() {
	c.Convert.OutputSuffix = strings.TrimSpace(c.Convert.OutputSuffix)
	if c.Convert.OutputSuffix == "" {
		c.Convert.OutputSuffix = defaultOutputSuffix
	}
	if c.Convert.Workers == 0 {
		c.Convert.Workers = defaultConvertWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("ADMKIT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
