package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"admkit/internal/admxml"
	"admkit/internal/config"
	"admkit/internal/flowstore"
	"admkit/internal/logging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool
	quietFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag, quietFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
		quietFlag:  quietFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		if c.quiet() {
			logger = logging.WithLevelOverride(logger, slog.LevelWarn)
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) quiet() bool {
	return c.quietFlag != nil && *c.quietFlag
}

// writerOptions returns the configured serialiser settings, letting the
// command's --write-defaults and --itu flags win when they were given.
func (c *commandContext) writerOptions(cmd *cobra.Command, logger *slog.Logger) (admxml.WriterOptions, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return admxml.WriterOptions{}, err
	}
	opts := admxml.WriterOptions{
		WriteDefaultValues: cfg.Writer.WriteDefaultValues,
		ITUStructure:       cfg.Writer.ITUStructure,
		Indent:             cfg.Writer.Indent,
		Logger:             logger,
	}
	if f := cmd.Flags().Lookup("write-defaults"); f != nil && f.Changed {
		opts.WriteDefaultValues, _ = cmd.Flags().GetBool("write-defaults")
	}
	if f := cmd.Flags().Lookup("itu"); f != nil && f.Changed {
		opts.ITUStructure, _ = cmd.Flags().GetBool("itu")
	}
	return opts, nil
}

func (c *commandContext) withStore(fn func(*flowstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := flowstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open flow store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
