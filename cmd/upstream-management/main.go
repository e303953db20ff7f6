package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/slac-it/pantheon-upstream-management/internal/cli/common"
	"github.com/slac-it/pantheon-upstream-management/internal/cli/requirecmd"
	"github.com/slac-it/pantheon-upstream-management/internal/cli/self"
	"github.com/slac-it/pantheon-upstream-management/internal/cli/updatedeps"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func main() {
	app := &cli.App{
		Name:    "upstream-management",
		Usage:   "Manage the dependencies of a Drupal custom upstream",
		Version: version,
		Flags:   common.GlobalFlags(),
		Action: func(c *cli.Context) error {
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			requirecmd.NewRequireCommand(),
			updatedeps.NewUpdateDependenciesCommand(),
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
