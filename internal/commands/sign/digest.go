package sign

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/middleware"
	"github.com/yourorg/sigbridge/internal/signer"
	"go.uber.org/zap"
)

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Sign a raw 32-byte digest",
		ArgsUsage: "<0x-hex-digest>",
		Action:    digestAction,
	}
}

func digestAction(c *cli.Context) error {
	log := middleware.GetLogger(c)

	if c.NArg() != 1 {
		return fmt.Errorf("usage: sigbridge sign digest <0x-hex-digest>")
	}

	raw, err := hexutil.Decode(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid digest: %w", err)
	}
	if len(raw) != common.HashLength {
		return fmt.Errorf("invalid digest: got %d bytes, want %d", len(raw), common.HashLength)
	}
	digest := common.BytesToHash(raw)

	currentCtx, err := middleware.GetCurrentContext(c)
	if err != nil {
		return err
	}

	sig, err := signer.FromContext(c.Context, currentCtx)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	signature, err := sig.SignDigest(c.Context, digest)
	if err != nil {
		return err
	}

	log.Info("Signed digest",
		zap.String("address", sig.Address().Hex()),
		zap.String("digest", digest.Hex()))
	fmt.Fprintln(c.App.Writer, hexutil.Encode(signature))
	return nil
}
