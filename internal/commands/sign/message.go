package sign

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/middleware"
	"github.com/yourorg/sigbridge/internal/signer"
	"go.uber.org/zap"
)

func messageCommand() *cli.Command {
	return &cli.Command{
		Name:      "message",
		Usage:     "Sign a message using EIP-191",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Read the message from a file instead of the argument",
			},
		},
		Action: messageAction,
	}
}

func messageAction(c *cli.Context) error {
	log := middleware.GetLogger(c)

	msg, err := messageInput(c)
	if err != nil {
		return err
	}

	currentCtx, err := middleware.GetCurrentContext(c)
	if err != nil {
		return err
	}

	sig, err := signer.FromContext(c.Context, currentCtx)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	signature, err := signer.SignMessage(c.Context, sig, msg)
	if err != nil {
		return err
	}

	log.Info("Signed message",
		zap.String("address", sig.Address().Hex()),
		zap.Int("bytes", len(msg)))
	fmt.Fprintln(c.App.Writer, hexutil.Encode(signature))
	return nil
}

func messageInput(c *cli.Context) ([]byte, error) {
	if file := c.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		return data, nil
	}
	if c.NArg() != 1 {
		return nil, fmt.Errorf("usage: sigbridge sign message <message> (or --file)")
	}
	return []byte(c.Args().First()), nil
}
