package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/config"
	"github.com/yourorg/sigbridge/internal/middleware"
	"go.uber.org/zap"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new context",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Name of the context",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "use",
				Usage: "Switch to the new context",
			},
		},
		Action: contextCreateAction,
	}
}

func contextCreateAction(c *cli.Context) error {
	log := middleware.GetLogger(c)
	name := c.String("name")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Contexts[name]; exists {
		return fmt.Errorf("context '%s' already exists", name)
	}

	cfg.Contexts[name] = &config.Context{Name: name}
	if c.Bool("use") || cfg.CurrentContext == "" {
		cfg.CurrentContext = name
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	log.Info("Created context", zap.String("name", name))
	fmt.Printf("Context '%s' created\n", name)
	if cfg.CurrentContext == name {
		fmt.Printf("Switched to context '%s'\n", name)
	}
	return nil
}
