package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/cmd/app/commands"
	"github.com/allisson/securevault/internal/app"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

func getCACommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init-ca",
			Usage: "Create and seal the root certificate authority",
			Flags: []cli.Flag{formatFlag()},
			Action: withCA(func(ctx context.Context, cmd *cli.Command, c *app.Container, ca pkiUseCase.CertificateAuthority) error {
				return commands.RunInitCA(ctx, ca, c.Logger(), cmd.Root().Writer, cmd.String("format"))
			}),
		},
		{
			Name:  "ca-info",
			Usage: "Show the root certificate and revocation count",
			Flags: []cli.Flag{formatFlag()},
			Action: withCA(func(ctx context.Context, cmd *cli.Command, _ *app.Container, ca pkiUseCase.CertificateAuthority) error {
				return commands.RunCAInfo(ctx, ca, cmd.Root().Writer, cmd.String("format"))
			}),
		},
		{
			Name:  "revoke-certificate",
			Usage: "Add a certificate serial to the revocation list",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "serial", Aliases: []string{"s"}, Required: true, Usage: "Serial number in hex"},
				&cli.StringFlag{Name: "reason", Aliases: []string{"r"}, Value: "unspecified", Usage: "Revocation reason"},
				formatFlag(),
			},
			Action: withCA(func(ctx context.Context, cmd *cli.Command, c *app.Container, ca pkiUseCase.CertificateAuthority) error {
				return commands.RunRevokeCertificate(
					ctx, ca, c.Logger(), cmd.Root().Writer,
					cmd.String("serial"), cmd.String("reason"), cmd.String("format"),
				)
			}),
		},
		{
			Name:  "list-revocations",
			Usage: "List revoked serials in revocation order",
			Flags: []cli.Flag{formatFlag()},
			Action: withCA(func(ctx context.Context, cmd *cli.Command, _ *app.Container, ca pkiUseCase.CertificateAuthority) error {
				return commands.RunListRevocations(ctx, ca, cmd.Root().Writer, cmd.String("format"))
			}),
		},
		{
			Name:  "verify-certificate",
			Usage: "Check a PEM certificate against the root and the revocation list",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Aliases: []string{"i"}, Required: true, Usage: "PEM certificate path"},
				formatFlag(),
			},
			Action: withCA(func(ctx context.Context, cmd *cli.Command, _ *app.Container, ca pkiUseCase.CertificateAuthority) error {
				data, err := os.ReadFile(cmd.String("file"))
				if err != nil {
					return fmt.Errorf("failed to read certificate: %w", err)
				}
				return commands.RunVerifyCertificate(ctx, ca, cmd.Root().Writer, string(data), cmd.String("format"))
			}),
		},
	}
}
