package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/internal/app"
	"github.com/allisson/securevault/internal/config"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

func getCommands(version string) []*cli.Command {
	return append(getSystemCommands(version), getCACommands()...)
}

// withContainer runs fn against a container built from the environment and
// releases it afterwards.
func withContainer(fn func(ctx context.Context, cmd *cli.Command, c *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		c := app.NewContainer(cfg)
		defer func() { _ = c.Shutdown(ctx) }()
		return fn(ctx, cmd, c)
	}
}

// withCA is withContainer for commands that operate on the certificate authority.
func withCA(
	fn func(ctx context.Context, cmd *cli.Command, c *app.Container, ca pkiUseCase.CertificateAuthority) error,
) cli.ActionFunc {
	return withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
		ca, err := c.CertificateAuthority()
		if err != nil {
			return err
		}
		return fn(ctx, cmd, c, ca)
	})
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: text or json",
	}
}
