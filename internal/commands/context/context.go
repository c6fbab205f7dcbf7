// Package context implements the commands that manage named signing
// contexts: which custody backend holds the key and how to reach it.
package context

import (
	"github.com/urfave/cli/v2"
)

// Command returns the context command group
func Command() *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Manage signing contexts",
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			showCommand(),
			setCommand(),
			useCommand(),
		},
	}
}
