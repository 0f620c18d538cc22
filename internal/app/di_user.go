package app

import (
	"fmt"
	"sync"

	authUseCase "github.com/allisson/wemakepass/internal/auth/usecase"
	userHTTP "github.com/allisson/wemakepass/internal/user/http"
	userRepository "github.com/allisson/wemakepass/internal/user/repository"
	userUseCase "github.com/allisson/wemakepass/internal/user/usecase"
)

// accountStore is satisfied by both SQL account repositories and serves the user and
// auth use cases.
type accountStore interface {
	userUseCase.AccountRepository
	authUseCase.AccountRepository
}

// userComponents holds account storage, the user use case and its handler.
type userComponents struct {
	accountRepository accountStore
	userUseCase       userUseCase.UseCase
	userHandler       *userHTTP.UserHandler

	accountRepositoryInit sync.Once
	userUseCaseInit       sync.Once
	userHandlerInit       sync.Once
}

// AccountRepository returns the account repository for the configured database driver.
func (c *Container) AccountRepository() (accountStore, error) {
	var err error
	c.accountRepositoryInit.Do(func() {
		c.accountRepository, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepository"]; exists {
		return nil, storedErr
	}
	return c.accountRepository, nil
}

// UserUseCase returns the user use case.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the profile HTTP handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		c.userHandler, err = c.initUserHandler()
		if err != nil {
			c.initErrors["userHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

func (c *Container) initAccountRepository() (accountStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return userRepository.NewPostgreSQLAccountRepository(db), nil
	case "mysql":
		return userRepository.NewMySQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserUseCase() (userUseCase.UseCase, error) {
	accounts, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for user use case: %w", err)
	}

	cipher, err := c.EnvelopeCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope cipher for user use case: %w", err)
	}

	return userUseCase.NewUserUseCase(accounts, c.PasswordService(), cipher), nil
}

func (c *Container) initUserHandler() (*userHTTP.UserHandler, error) {
	useCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
	}
	return userHTTP.NewUserHandler(useCase, c.Logger()), nil
}
