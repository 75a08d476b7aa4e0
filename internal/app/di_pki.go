package app

import (
	"fmt"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiHTTP "github.com/allisson/securevault/internal/pki/http"
	pkiRepository "github.com/allisson/securevault/internal/pki/repository"
	pkiService "github.com/allisson/securevault/internal/pki/service"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

func (c *Container) RootRepository() (pkiUseCase.RootRepository, error) {
	return c.rootRepository.get(func() (pkiUseCase.RootRepository, error) {
		db, err := c.driverDB("root repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return pkiRepository.NewMySQLRootRepository(db), nil
		}
		return pkiRepository.NewPostgreSQLRootRepository(db), nil
	})
}

func (c *Container) RevocationRepository() (pkiUseCase.RevocationRepository, error) {
	return c.revocationRepository.get(func() (pkiUseCase.RevocationRepository, error) {
		db, err := c.driverDB("revocation repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return pkiRepository.NewMySQLRevocationRepository(db), nil
		}
		return pkiRepository.NewPostgreSQLRevocationRepository(db), nil
	})
}

func (c *Container) IssuedCertificateRepository() (pkiUseCase.IssuedCertificateRepository, error) {
	return c.issuedCertificateRepository.get(func() (pkiUseCase.IssuedCertificateRepository, error) {
		db, err := c.driverDB("issued certificate repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return pkiRepository.NewMySQLIssuedCertificateRepository(db), nil
		}
		return pkiRepository.NewPostgreSQLIssuedCertificateRepository(db), nil
	})
}

// CertificateAuthority returns the certificate authority. It is not activated;
// callers that serve requests must call Activate first.
func (c *Container) CertificateAuthority() (pkiUseCase.CertificateAuthority, error) {
	return c.certificateAuthority.get(c.initCertificateAuthority)
}

// RevocationSync returns the worker that reloads revocations written by other processes.
func (c *Container) RevocationSync() (*pkiUseCase.RevocationSync, error) {
	return c.revocationSync.get(func() (*pkiUseCase.RevocationSync, error) {
		ca, err := c.CertificateAuthority()
		if err != nil {
			return nil, fmt.Errorf("failed to get certificate authority for revocation sync: %w", err)
		}
		return pkiUseCase.NewRevocationSync(c.config.CARevocationRefreshInterval, ca, c.Logger()), nil
	})
}

// CAHandler returns the HTTP handler for the public CA endpoints.
func (c *Container) CAHandler() (*pkiHTTP.CAHandler, error) {
	return c.caHandler.get(func() (*pkiHTTP.CAHandler, error) {
		ca, err := c.CertificateAuthority()
		if err != nil {
			return nil, fmt.Errorf("failed to get certificate authority for CA handler: %w", err)
		}
		return pkiHTTP.NewCAHandler(ca, c.Logger()), nil
	})
}

func (c *Container) initCertificateAuthority() (pkiUseCase.CertificateAuthority, error) {
	rootRepo, err := c.RootRepository()
	if err != nil {
		return nil, err
	}
	revocationRepo, err := c.RevocationRepository()
	if err != nil {
		return nil, err
	}
	issuedRepo, err := c.IssuedCertificateRepository()
	if err != nil {
		return nil, err
	}

	ca := pkiUseCase.NewCertificateAuthority(
		pkiUseCase.Config{
			Subject: pkiDomain.Subject{
				CommonName:   c.config.CACommonName,
				Organization: c.config.CAOrganization,
				Email:        c.config.CAEmail,
			},
			RootValidity: c.config.CARootValidity,
			CertValidity: c.config.CACertValidity,
			KMSKeyURI:    c.config.KMSKeyURI,
		},
		rootRepo,
		revocationRepo,
		issuedRepo,
		c.KeyPairProvider(),
		pkiService.NewCertificateSigner(),
		c.KMSService(),
		c.Logger(),
	)
	return withMetrics(c, ca, pkiUseCase.NewCertificateAuthorityWithMetrics)
}
