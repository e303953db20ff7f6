package requirecmd

import (
	"github.com/urfave/cli/v2"

	"github.com/slac-it/pantheon-upstream-management/internal/cli/common"
	"github.com/slac-it/pantheon-upstream-management/internal/core/composer"
	"github.com/slac-it/pantheon-upstream-management/internal/core/upstream"
)

// NewRequireCommand creates the "upstream-require" command. Its arguments are
// handed to composer require mostly as given, so urfave/cli does not parse them.
func NewRequireCommand() *cli.Command {
	return &cli.Command{
		Name:            "upstream-require",
		Aliases:         []string{"upstream:require"},
		Usage:           "Require a new package to be added to the upstream",
		ArgsUsage:       "<packages...> [composer require options]",
		SkipFlagParsing: true,
		Description: "Adds packages to upstream-configuration/composer.json by running composer require\n" +
			"in that directory. Options are forwarded to composer except --working-dir,\n" +
			"--no-update and --no-install, which are decided by this command.",
		Action: func(c *cli.Context) error {
			if wantsHelp(c.Args().Slice()) {
				cli.HelpPrinter(c.App.Writer, cli.CommandHelpTemplate, c.Command)
				return nil
			}

			parsed := composer.ParseRequireArgs(c.Args().Slice())
			if len(parsed.Packages) == 0 {
				return cli.Exit("Error: at least one package argument is required.", 1)
			}

			svc, err := common.NewService(c)
			if err != nil {
				return common.Exit(err)
			}

			_, err = svc.Require(c.Context, upstream.RequireRequest{
				Packages: parsed.Packages,
				Options:  parsed.Options,
				NoUpdate: parsed.NoUpdate,
			})
			return common.Exit(err)
		},
	}
}

// wantsHelp reports whether -h or --help appears before any "--" separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}
	return false
}
