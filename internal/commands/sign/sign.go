// Package sign implements the signing commands. Each subcommand derives
// the right digest for its scheme and hands it to the configured backend.
package sign

import (
	"github.com/urfave/cli/v2"
)

// Command returns the sign command group
func Command() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Sign messages, digests and transactions with the configured backend",
		Subcommands: []*cli.Command{
			messageCommand(),
			digestCommand(),
			txCommand(),
		},
	}
}
