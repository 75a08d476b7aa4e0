package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
)

// KeyPairProvider returns the RSA-2048 key pair generator.
func (c *Container) KeyPairProvider() cryptoService.KeyPairProvider {
	return c.keyPairProvider.must(func() cryptoService.KeyPairProvider {
		return cryptoService.NewKeyPairProvider()
	})
}

func (c *Container) SignatureEngine() cryptoService.SignatureEngine {
	return c.signatureEngine.must(func() cryptoService.SignatureEngine {
		return cryptoService.NewSignatureEngine()
	})
}

func (c *Container) AEADManager() cryptoService.AEADManager {
	return c.aeadManager.must(func() cryptoService.AEADManager {
		return cryptoService.NewAEADManager()
	})
}

// KMSService returns the sealer used for the root private key.
func (c *Container) KMSService() cryptoService.KMSService {
	return c.kmsService.must(cryptoService.NewKMSService)
}

// HybridCipher returns the envelope cipher configured with CONTENT_CIPHER_ALGORITHM.
func (c *Container) HybridCipher() (cryptoService.HybridCipher, error) {
	return c.hybridCipher.get(func() (cryptoService.HybridCipher, error) {
		alg, err := cryptoDomain.ParseAlgorithm(c.config.ContentCipherAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("invalid content cipher algorithm %q: %w", c.config.ContentCipherAlgorithm, err)
		}
		hc, err := cryptoService.NewHybridCipher(c.AEADManager(), c.SignatureEngine(), alg)
		if err != nil {
			return nil, fmt.Errorf("failed to create hybrid cipher: %w", err)
		}
		return hc, nil
	})
}
