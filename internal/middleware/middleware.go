package middleware

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/config"
	"github.com/yourorg/sigbridge/internal/logger"
	"go.uber.org/zap"
)

// ChainBeforeFuncs chains multiple BeforeFuncs together
func ChainBeforeFuncs(funcs ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		for _, fn := range funcs {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// ConfigBeforeFunc loads configuration and the current signing context
func ConfigBeforeFunc(c *cli.Context) error {
	// Initialize logger early
	logger.InitGlobal(c.Bool("verbose"), c.App.Writer)
	l := logger.Get()

	// Help output needs no context
	for _, arg := range os.Args {
		if arg == "--help" || arg == "-h" || arg == "help" {
			c.Context = context.WithValue(c.Context, config.ConfigKey, &config.Config{})
			c.Context = context.WithValue(c.Context, config.ContextKey, &config.Context{})
			return nil
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		l.Error("Failed to load config", zap.Error(err))
		cfg = &config.Config{
			Contexts: make(map[string]*config.Context),
		}
	}

	var currentCtx *config.Context
	if cfg.CurrentContext != "" {
		if ctx, exists := cfg.Contexts[cfg.CurrentContext]; exists {
			currentCtx = ctx
		}
	}

	// Context commands manage contexts, so they run without one
	if currentCtx == nil && !isContextCommand(c) && !isHelpCommand(c) {
		l.Error("No context configured")
		fmt.Fprintf(os.Stderr, "\nError: No context configured\n\n")
		fmt.Fprintf(os.Stderr, "To create a context, run:\n")
		fmt.Fprintf(os.Stderr, "  sigbridge context create --name default --use\n\n")
		fmt.Fprintf(os.Stderr, "To list available contexts:\n")
		fmt.Fprintf(os.Stderr, "  sigbridge context list\n\n")
		return fmt.Errorf("no context configured")
	}

	if currentCtx == nil {
		currentCtx = &config.Context{}
	}

	c.Context = context.WithValue(c.Context, config.ConfigKey, cfg)
	c.Context = context.WithValue(c.Context, config.ContextKey, currentCtx)
	c.Context = context.WithValue(c.Context, config.LoggerKey, l)

	return nil
}

// GetLogger retrieves the logger from context
func GetLogger(c *cli.Context) logger.Logger {
	if l, ok := c.Context.Value(config.LoggerKey).(logger.Logger); ok {
		return l
	}
	return logger.New(c.Bool("verbose"), c.App.Writer)
}

// GetConfig retrieves the config from context
func GetConfig(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.Context.Value(config.ConfigKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not initialized")
	}
	return cfg, nil
}

// GetCurrentContext retrieves the current signing context
func GetCurrentContext(c *cli.Context) (*config.Context, error) {
	ctx, ok := c.Context.Value(config.ContextKey).(*config.Context)
	if !ok || ctx == nil {
		return nil, fmt.Errorf("context not initialized")
	}
	return ctx, nil
}

// ExitErrHandler handles errors on exit
func ExitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}

	var log logger.Logger
	if c != nil {
		log = GetLogger(c)
	} else {
		log = logger.Get()
	}

	if c != nil && c.Command != nil {
		log.Error("Command execution failed",
			zap.String("command", c.Command.Name),
			zap.Error(err))
	} else {
		log.Error("Command execution failed", zap.Error(err))
	}
}

func isContextCommand(c *cli.Context) bool {
	if c.NArg() == 0 {
		return false
	}
	return c.Args().Get(0) == "context"
}

func isHelpCommand(c *cli.Context) bool {
	if c.NArg() == 0 {
		return false
	}
	cmd := c.Args().Get(0)
	return cmd == "help" || cmd == "version"
}
