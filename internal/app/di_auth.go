package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/wemakepass/internal/auth/http"
	authMySQL "github.com/allisson/wemakepass/internal/auth/repository/mysql"
	authPostgreSQL "github.com/allisson/wemakepass/internal/auth/repository/postgresql"
	authRedis "github.com/allisson/wemakepass/internal/auth/repository/redis"
	authService "github.com/allisson/wemakepass/internal/auth/service"
	authUseCase "github.com/allisson/wemakepass/internal/auth/usecase"
	"github.com/allisson/wemakepass/internal/config"
	"github.com/allisson/wemakepass/internal/database"
	"github.com/allisson/wemakepass/internal/events"
)

// authComponents holds the credential layer: codec, password hashing, credential store,
// events and the token use case with its handler.
type authComponents struct {
	tokenCodec           authService.TokenCodec
	passwordService      authService.PasswordService
	credentialRepository authUseCase.CredentialRepository
	eventPublisher       *events.WatermillPublisher
	tokenUseCase         authUseCase.TokenUseCase
	tokenHandler         *authHTTP.TokenHandler

	tokenCodecInit           sync.Once
	passwordServiceInit      sync.Once
	credentialRepositoryInit sync.Once
	eventPublisherInit       sync.Once
	tokenUseCaseInit         sync.Once
	tokenHandlerInit         sync.Once
}

// TokenCodec returns the HS256 codec for session and refresh tokens.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = c.initTokenCodec()
		if err != nil {
			c.initErrors["tokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// CredentialRepository returns the refresh credential store selected by CREDENTIAL_STORE.
func (c *Container) CredentialRepository() (authUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepositoryInit.Do(func() {
		c.credentialRepository, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepository"]; exists {
		return nil, storedErr
	}
	return c.credentialRepository, nil
}

// EventPublisher returns the credential event publisher, or nil when events are disabled.
func (c *Container) EventPublisher() (*events.WatermillPublisher, error) {
	var err error
	c.eventPublisherInit.Do(func() {
		c.eventPublisher, err = c.initEventPublisher()
		if err != nil {
			c.initErrors["eventPublisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventPublisher"]; exists {
		return nil, storedErr
	}
	return c.eventPublisher, nil
}

// TokenUseCase returns the token use case decorated with business metrics.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the login, reissue and logout HTTP handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

func (c *Container) initTokenCodec() (authService.TokenCodec, error) {
	keys, err := c.KeyMaterial()
	if err != nil {
		return nil, fmt.Errorf("failed to get key material for token codec: %w", err)
	}

	return authService.NewTokenCodec(
		keys,
		authService.WithSessionTTL(c.config.SessionTokenTTL),
		authService.WithRefreshTTL(c.config.RefreshTokenTTL),
	), nil
}

func (c *Container) initCredentialRepository() (authUseCase.CredentialRepository, error) {
	switch c.config.CredentialStore {
	case config.CredentialStoreRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for credential repository: %w", err)
		}
		return authRedis.NewCredentialRepository(client, authRedis.DefaultKeyPrefix, c.config.RefreshTokenTTL), nil
	case config.CredentialStoreSQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
		}
		switch c.config.DBDriver {
		case "postgres":
			return authPostgreSQL.NewCredentialRepository(db), nil
		case "mysql":
			return authMySQL.NewCredentialRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported credential store: %s", c.config.CredentialStore)
	}
}

func (c *Container) initEventPublisher() (*events.WatermillPublisher, error) {
	if !c.config.EventsEnabled {
		return nil, nil
	}

	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for event publisher: %w", err)
	}

	stream, err := events.NewRedisStreamPublisher(client, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}
	return events.NewWatermillPublisher(stream, c.config.EventsTopic), nil
}

func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	credentials, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for token use case: %w", err)
	}

	accounts, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for token use case: %w", err)
	}

	standing, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for token use case: %w", err)
	}

	codec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for token use case: %w", err)
	}

	cipher, err := c.EnvelopeCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope cipher for token use case: %w", err)
	}

	publisher, err := c.EventPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for token use case: %w", err)
	}
	var eventPublisher authUseCase.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	// Rotations share a transaction with the credential row only when it lives in SQL.
	var txManager database.TxManager
	if c.config.CredentialStore == config.CredentialStoreSQL {
		txManager, err = c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
		}
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := authUseCase.NewTokenUseCase(
		txManager,
		credentials,
		accounts,
		standing,
		codec,
		c.PasswordService(),
		cipher,
		eventPublisher,
		c.Logger(),
	)
	return authUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	useCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}
	return authHTTP.NewTokenHandler(useCase, c.Logger()), nil
}
