package context

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/config"
	"github.com/yourorg/sigbridge/internal/eth"
	"github.com/yourorg/sigbridge/internal/keyref"
	"github.com/yourorg/sigbridge/internal/middleware"
	"github.com/yourorg/sigbridge/internal/signer"
	"go.uber.org/zap"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List all contexts",
		Action: contextListAction,
	}
}

func contextListAction(c *cli.Context) error {
	log := middleware.GetLogger(c)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Info("Listing contexts", zap.Int("count", len(cfg.Contexts)))

	if len(cfg.Contexts) == 0 {
		fmt.Println("No contexts configured")
		fmt.Println("\nTo create a context, run:")
		fmt.Println("  sigbridge context create --name default --use")
		return nil
	}

	table := tablewriter.NewWriter(c.App.Writer)
	table.Header("CURRENT", "NAME", "BACKEND", "CHAIN", "ADDRESS")

	for name, ctx := range cfg.Contexts {
		current := ""
		if name == cfg.CurrentContext {
			current = "*"
		}

		backend := "-"
		if ctx.KeyRef != "" {
			if ref, err := keyref.Parse(ctx.KeyRef); err == nil {
				backend = string(ref.Backend)
			}
		} else if ctx.ECDSAPrivateKey != "" {
			backend = string(keyref.BackendLocal)
		} else if ctx.KeystorePath != "" {
			backend = string(keyref.BackendKeystore)
		}

		chain := "-"
		if ctx.ChainID != 0 {
			chain = eth.ChainName(ctx.ChainID)
		}

		// Remote backends need their clients, so the address shows only
		// when the context resolves without any.
		address := "-"
		if sig, err := signer.FromContext(c.Context, ctx); err == nil {
			address = sig.Address().Hex()
		}

		table.Append([]string{
			current,
			name,
			backend,
			chain,
			address,
		})
	}

	table.Render()
	return nil
}
