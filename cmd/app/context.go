package main

import (
	"errors"
	"os"
	"strings"
	"sync"

	"SentiCast/pkg/config"
	applogger "SentiCast/pkg/logger"
)

const defaultConfigPath = "config/config.yaml"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the config file once. A missing default file falls
// back to built-in defaults; a missing explicit file is an error.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := defaultConfigPath
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == defaultConfigPath {
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				c.config, c.configErr = config.Default()
				return
			}
		}
		c.config, c.configErr = config.LoadWithEnv(path)
	})
	return c.config, c.configErr
}

// cliLogger writes to stderr so command output stays parseable.
func (c *commandContext) cliLogger() *applogger.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return applogger.Nop()
	}
	l, err := applogger.New(&applogger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return applogger.Nop()
	}
	return l
}
