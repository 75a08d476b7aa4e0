package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/cmd/app/commands"
	"github.com/allisson/securevault/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Serve the API, activating the certificate authority first",
			Action: func(ctx context.Context, _ *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations, or roll back with a negative --steps",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "steps", Usage: "Number of migrations to apply (negative rolls back, 0 applies all)"},
			},
			Action: withContainer(func(_ context.Context, cmd *cli.Command, c *app.Container) error {
				cfg := c.Config()
				return commands.RunMigrations(c.Logger(), cfg.DBDriver, cfg.DBConnectionString, int(cmd.Int("steps")))
			}),
		},
		{
			Name:  "migrate-version",
			Usage: "Show the applied schema version",
			Flags: []cli.Flag{formatFlag()},
			Action: withContainer(func(_ context.Context, cmd *cli.Command, c *app.Container) error {
				cfg := c.Config()
				return commands.RunMigrationVersion(
					c.Logger(), cmd.Root().Writer, cfg.DBDriver, cfg.DBConnectionString, cmd.String("format"),
				)
			}),
		},
		{
			Name:  "clean-expired-tokens",
			Usage: "Purge session tokens that expired more than --days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Required: true, Usage: "Age threshold in days"},
				&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "Only count matching tokens"},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				sessions, err := c.SessionUseCase()
				if err != nil {
					return err
				}
				return commands.RunCleanExpiredTokens(
					ctx, sessions, c.Logger(), cmd.Root().Writer,
					int(cmd.Int("days")), cmd.Bool("dry-run"), cmd.String("format"),
				)
			}),
		},
	}
}
