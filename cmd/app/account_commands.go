package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/wemakepass/cmd/app/commands"
	"github.com/allisson/wemakepass/internal/app"
	"github.com/allisson/wemakepass/internal/config"
)

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-account",
			Usage: "Create a study-platform account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Login identifier",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address",
				},
				&cli.StringFlag{
					Name:     "nickname",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Display name",
				},
				&cli.StringFlag{
					Name:  "role",
					Value: "USER",
					Usage: "Account role (USER or ADMIN)",
				},
				&cli.BoolFlag{
					Name:  "certified",
					Value: true,
					Usage: "Mark the account as certified so it can log in",
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

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAccount(
					ctx,
					userUseCase,
					container.Logger(),
					commands.AccountFlags{
						UserID:    cmd.String("user-id"),
						Email:     cmd.String("email"),
						Nickname:  cmd.String("nickname"),
						Role:      cmd.String("role"),
						Certified: cmd.Bool("certified"),
					},
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
