package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/apikeys/cmd/app/commands"
	"github.com/allisson/apikeys/internal/app"
	"github.com/allisson/apikeys/internal/config"
)

func getOwnerCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-owner",
			Usage: "Create a new API key owner and print its credentials",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable owner name",
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

				ownerUseCase, err := container.OwnerUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateOwner(
					ctx,
					ownerUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
	}
}
