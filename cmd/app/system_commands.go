package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/apikeys/cmd/app/commands"
	"github.com/allisson/apikeys/internal/app"
	"github.com/allisson/apikeys/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "clean-access-logs",
			Usage: "Delete access logs older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Usage:   "Delete access logs older than this many days (defaults to ACCESS_LOG_RETENTION_DAYS)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many logs would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accessLogUseCase, err := container.AccessLogUseCase()
				if err != nil {
					return err
				}

				days := cfg.AccessLogRetentionDays
				if cmd.IsSet("days") {
					days = int(cmd.Int("days"))
				}

				return commands.RunCleanAccessLogs(
					ctx,
					accessLogUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					days,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
