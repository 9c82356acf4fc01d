package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"skellylogs/internal/config"
	"skellylogs/internal/logging"
	"skellylogs/internal/relayq"
)

type commandContext struct {
	configFlag *string
	pipeline   *logging.Pipeline
	manager    *relayq.Manager

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, pipeline *logging.Pipeline, manager *relayq.Manager) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		pipeline:   pipeline,
		manager:    manager,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
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
