package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"captiongen/internal/config"
	"captiongen/internal/logging"
	"captiongen/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	dirsOnce sync.Once
	dirsErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	logPath    string
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := loadDotEnv(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "dotenv", "read .env", err)
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// ensureDirectories creates the state, log and cache directories. Commands
// call it only once they are about to write there.
func (c *commandContext) ensureDirectories() error {
	c.dirsOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.dirsErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.dirsErr = services.Wrap(services.ErrConfiguration, "config", "directories", "", err)
		}
	})
	return c.dirsErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if err := c.ensureDirectories(); err != nil {
			c.loggerErr = err
			return
		}
		logger, path, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
		c.logPath = path
	})
	return c.logger, c.loggerErr
}

// loadDotEnv imports ./.env into the process environment without
// overriding variables that are already set.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
