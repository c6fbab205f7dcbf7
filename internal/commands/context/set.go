package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/config"
	"github.com/yourorg/sigbridge/internal/eth"
	"github.com/yourorg/sigbridge/internal/keyref"
	"github.com/yourorg/sigbridge/internal/middleware"
	"go.uber.org/zap"
)

func setCommand() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Set context properties",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "key-ref",
				Usage: "Set the key reference (kms://..., ledger://..., remote://..., keystore://... or a hex key)",
			},
			&cli.StringFlag{
				Name:  "chain",
				Usage: "Set the default chain for transaction signing (name or numeric ID)",
			},
			&cli.StringFlag{
				Name:  "ecdsa-private-key",
				Usage: "Set ECDSA private key (hex encoded)",
			},
			&cli.StringFlag{
				Name:  "keystore-path",
				Usage: "Set path to keystore file",
			},
			&cli.StringFlag{
				Name:  "keystore-password",
				Usage: "Set keystore password",
			},
		},
		Action: contextSetAction,
	}
}

func contextSetAction(c *cli.Context) error {
	log := middleware.GetLogger(c)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.CurrentContext == "" {
		return fmt.Errorf("no current context set")
	}

	ctx, exists := cfg.Contexts[cfg.CurrentContext]
	if !exists {
		return fmt.Errorf("current context '%s' not found", cfg.CurrentContext)
	}

	updated := false

	if ref := c.String("key-ref"); ref != "" {
		if _, err := keyref.Parse(ref); err != nil {
			return err
		}
		// Setting a key reference clears the legacy signer fields
		ctx.KeyRef = ref
		ctx.ECDSAPrivateKey = ""
		ctx.KeystorePath = ""
		ctx.KeystorePassword = ""
		updated = true
		log.Info("Updated key reference", zap.String("ref", ref))
	}

	if chain := c.String("chain"); chain != "" {
		chainID, err := eth.ParseChain(chain)
		if err != nil {
			return err
		}
		ctx.ChainID = chainID
		updated = true
		log.Info("Updated chain", zap.Uint64("chainId", chainID))
	}

	// Legacy signer configuration (mutually exclusive)
	if privateKey := c.String("ecdsa-private-key"); privateKey != "" {
		ctx.ECDSAPrivateKey = privateKey
		ctx.KeyRef = ""
		ctx.KeystorePath = ""
		ctx.KeystorePassword = ""
		updated = true
		log.Info("Updated ECDSA private key")
	}

	if keystorePath := c.String("keystore-path"); keystorePath != "" {
		ctx.KeystorePath = keystorePath
		ctx.KeyRef = ""
		ctx.ECDSAPrivateKey = ""
		updated = true
		log.Info("Updated keystore path", zap.String("path", keystorePath))
	}

	if keystorePassword := c.String("keystore-password"); keystorePassword != "" {
		if ctx.KeystorePath == "" {
			return fmt.Errorf("keystore-password requires keystore-path to be set")
		}
		ctx.KeystorePassword = keystorePassword
		updated = true
		log.Info("Updated keystore password")
	}

	if !updated {
		return fmt.Errorf("no values provided to update")
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Context '%s' updated\n", cfg.CurrentContext)
	return nil
}
