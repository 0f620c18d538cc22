package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/wemakepass/cmd/app/commands"
	"github.com/allisson/wemakepass/internal/app"
	"github.com/allisson/wemakepass/internal/config"
	cryptoService "github.com/allisson/wemakepass/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-keys",
			Usage: "Generate JWT_SECRET_KEY, AES_SECRET_KEY and AES_IV",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Wrap the generated secrets with this KMS key (e.g. base64key://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKeys(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:      "encrypt",
			Usage:     "Envelope-encrypt a value with the configured AES key and IV",
			ArgsUsage: "<value>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				cipher, err := container.EnvelopeCipher()
				if err != nil {
					return err
				}

				return commands.RunEnvelope(cipher, commands.DefaultIO().Writer, commands.EnvelopeEncrypt, cmd.Args().First())
			},
		},
		{
			Name:      "decrypt",
			Usage:     "Decrypt an envelope value with the configured AES key and IV",
			ArgsUsage: "<value>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				cipher, err := container.EnvelopeCipher()
				if err != nil {
					return err
				}

				return commands.RunEnvelope(cipher, commands.DefaultIO().Writer, commands.EnvelopeDecrypt, cmd.Args().First())
			},
		},
	}
}
