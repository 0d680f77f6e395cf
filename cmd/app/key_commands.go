package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/apikeys/cmd/app/commands"
	"github.com/allisson/apikeys/internal/app"
	"github.com/allisson/apikeys/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "backfill-key-expiration",
			Usage: "Set an expiration on active API keys created without one",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Value:   90,
					Usage:   "Expire affected keys this many days from now",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many keys would be updated without updating",
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

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunBackfillKeyExpiration(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
