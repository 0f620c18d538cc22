package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
	cryptoService "github.com/allisson/wemakepass/internal/crypto/service"
)

// cryptoComponents holds the key material and the services derived from it.
type cryptoComponents struct {
	kmsService     cryptoService.KMSService
	keyMaterial    *cryptoDomain.KeyMaterial
	envelopeCipher *cryptoService.EnvelopeCipher

	kmsServiceInit     sync.Once
	keyMaterialInit    sync.Once
	envelopeCipherInit sync.Once
}

// KMSService returns the KMS service used to unwrap configured secrets.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyMaterial returns the process key set. Secrets are unwrapped through KMS when
// KMS_KEY_URI is configured.
func (c *Container) KeyMaterial() (*cryptoDomain.KeyMaterial, error) {
	var err error
	c.keyMaterialInit.Do(func() {
		c.keyMaterial, err = c.initKeyMaterial()
		if err != nil {
			c.initErrors["keyMaterial"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyMaterial"]; exists {
		return nil, storedErr
	}
	return c.keyMaterial, nil
}

// EnvelopeCipher returns the AES-CBC cipher used for transport values.
func (c *Container) EnvelopeCipher() (*cryptoService.EnvelopeCipher, error) {
	var err error
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher, err = c.initEnvelopeCipher()
		if err != nil {
			c.initErrors["envelopeCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeCipher"]; exists {
		return nil, storedErr
	}
	return c.envelopeCipher, nil
}

func (c *Container) initKeyMaterial() (*cryptoDomain.KeyMaterial, error) {
	loader := cryptoService.NewKeyLoader(c.KMSService(), c.Logger())

	keys, err := loader.Load(context.Background(), cryptoDomain.KeySource{
		JWTSecretKey: c.config.JWTSecretKey,
		AESSecretKey: c.config.AESSecretKey,
		AESIV:        c.config.AESIV,
		KMSKeyURI:    c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load key material: %w", err)
	}
	return keys, nil
}

func (c *Container) initEnvelopeCipher() (*cryptoService.EnvelopeCipher, error) {
	keys, err := c.KeyMaterial()
	if err != nil {
		return nil, fmt.Errorf("failed to get key material for envelope cipher: %w", err)
	}

	cipher, err := cryptoService.NewEnvelopeCipher(keys)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope cipher: %w", err)
	}
	return cipher, nil
}
