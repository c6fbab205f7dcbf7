package sign

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/eth"
	"github.com/yourorg/sigbridge/internal/middleware"
	"github.com/yourorg/sigbridge/internal/signer"
	"go.uber.org/zap"
)

func txCommand() *cli.Command {
	return &cli.Command{
		Name:  "tx",
		Usage: "Sign a transaction described by a YAML request file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to the transaction request file",
				Required: true,
			},
		},
		Action: txAction,
	}
}

func txAction(c *cli.Context) error {
	log := middleware.GetLogger(c)

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	req, err := ParseTxRequest(data)
	if err != nil {
		return err
	}

	currentCtx, err := middleware.GetCurrentContext(c)
	if err != nil {
		return err
	}

	chainID, err := req.ResolveChainID(currentCtx.ChainID)
	if err != nil {
		return err
	}

	tx, err := req.Transaction(chainID)
	if err != nil {
		return err
	}

	sig, err := signer.FromContext(c.Context, currentCtx)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	signedTx, err := signer.SignTransaction(c.Context, sig, tx, new(big.Int).SetUint64(chainID))
	if err != nil {
		return err
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode signed transaction: %w", err)
	}

	log.Info("Signed transaction",
		zap.String("address", sig.Address().Hex()),
		zap.String("chain", eth.ChainName(chainID)),
		zap.String("hash", signedTx.Hash().Hex()))

	fmt.Fprintln(c.App.Writer, hexutil.Encode(raw))
	return nil
}
