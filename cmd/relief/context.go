package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"relief/internal/client"
	"relief/internal/config"
	"relief/internal/ident"
	"relief/internal/logging"
	"relief/internal/staging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
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

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) newClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return client.NewFromConfig(cfg, c.loggerValue())
}

func (c *commandContext) newList() (*staging.List, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return staging.NewList(staging.WithIDGenerator(ident.Generator(cfg.Job.IDLength))), nil
}

// withStaging opens the staging store, runs fn, and closes it again.
func (c *commandContext) withStaging(fn func(*staging.Store, *staging.List) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := staging.Open(cfg.StagingDBPath(), cfg.StagingLockPath())
	if err != nil {
		return fmt.Errorf("open staging: %w", err)
	}
	defer store.Close()

	list, err := c.newList()
	if err != nil {
		return err
	}
	return fn(store, list)
}

// updateStaging runs fn against the stored list under the staging lock and
// saves the result when fn succeeds.
func (c *commandContext) updateStaging(ctx context.Context, fn func(*staging.List) error) (*staging.List, error) {
	var result *staging.List
	err := c.withStaging(func(store *staging.Store, list *staging.List) error {
		result = list
		return store.Update(ctx, list, fn)
	})
	return result, err
}

// skipConfigLoad marks commands that load (or write) configuration
// themselves.
const skipConfigLoad = "skipConfigLoad"

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigLoad] == "true" {
			return true
		}
	}
	return false
}
