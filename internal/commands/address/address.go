// Package address implements the command that resolves the configured
// signer and prints its account address.
package address

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/middleware"
	"github.com/yourorg/sigbridge/internal/signer"
	"go.uber.org/zap"
)

// Command returns the address command
func Command() *cli.Command {
	return &cli.Command{
		Name:  "address",
		Usage: "Show the address of the configured signer",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "public-key",
				Usage: "Also print the uncompressed public key where the backend can export it",
			},
		},
		Action: addressAction,
	}
}

func addressAction(c *cli.Context) error {
	log := middleware.GetLogger(c)

	currentCtx, err := middleware.GetCurrentContext(c)
	if err != nil {
		return err
	}

	sig, err := signer.FromContext(c.Context, currentCtx)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	log.Info("Resolved signer", zap.String("address", sig.Address().Hex()))
	fmt.Fprintln(c.App.Writer, sig.Address().Hex())

	if c.Bool("public-key") {
		local, ok := sig.(*signer.LocalSigner)
		if !ok {
			return fmt.Errorf("the configured backend does not export its public key")
		}
		fmt.Fprintf(c.App.Writer, "0x%x\n", crypto.FromECDSAPub(local.PublicKey()))
	}

	return nil
}
