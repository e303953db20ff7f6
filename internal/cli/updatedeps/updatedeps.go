package updatedeps

import (
	"github.com/urfave/cli/v2"

	"github.com/slac-it/pantheon-upstream-management/internal/cli/common"
)

// NewUpdateDependenciesCommand creates the "upstream-update-dependencies" command.
func NewUpdateDependenciesCommand() *cli.Command {
	return &cli.Command{
		Name:    "upstream-update-dependencies",
		Aliases: []string{"upstream:update-dependencies", "update-upstream-dependencies"},
		Usage:   "Update upstream dependencies (when using pinned versions)",
		Description: "Resolves upstream-configuration/composer.json, writes the exact versions from its\n" +
			"composer.lock into upstream-configuration/locked/composer.json and points the\n" +
			"project's upstream path repository at the locked copy.",
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return cli.Exit("Error: upstream-update-dependencies takes no arguments.", 1)
			}

			svc, err := common.NewService(c)
			if err != nil {
				return common.Exit(err)
			}

			_, err = svc.UpdateDependencies(c.Context)
			return common.Exit(err)
		},
	}
}
