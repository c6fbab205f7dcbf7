package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/yourorg/sigbridge/internal/commands/address"
	contextcmd "github.com/yourorg/sigbridge/internal/commands/context"
	"github.com/yourorg/sigbridge/internal/commands/sign"
	"github.com/yourorg/sigbridge/internal/middleware"
	"github.com/yourorg/sigbridge/internal/signer"
)

var version = "dev"

func main() {
	// Optional .env, for keystore passwords and client credentials
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "sigbridge",
		Usage:   "Sign Ethereum transactions and messages across key-custody backends",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose logging",
			},
		},
		Before: middleware.ChainBeforeFuncs(
			middleware.ConfigBeforeFunc,
		),
		Commands: []*cli.Command{
			contextcmd.Command(),
			address.Command(),
			sign.Command(),
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			middleware.ExitErrHandler(c, err)
		},
	}

	err := app.Run(os.Args)
	if closeErr := signer.DefaultSessions.CloseAll(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "failed to close custody sessions: %v\n", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
