package app

import (
	"fmt"

	authHTTP "github.com/allisson/apikeys/internal/auth/http"
	authRepository "github.com/allisson/apikeys/internal/auth/repository"
	authService "github.com/allisson/apikeys/internal/auth/service"
	authUseCase "github.com/allisson/apikeys/internal/auth/usecase"
)

// SecretService returns the secret service used for owner secrets.
func (c *Container) SecretService() (authService.SecretService, error) {
	var err error
	c.secretServiceInit.Do(func() {
		c.secretService, err = authService.NewSecretService()
		if err != nil {
			c.setInitError("secretService", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretService"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretService, nil
}

// TokenService returns the token service for bearer token operations.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// OwnerRepository returns the owner repository based on database driver.
func (c *Container) OwnerRepository() (authUseCase.OwnerRepository, error) {
	var err error
	c.ownerRepositoryInit.Do(func() {
		c.ownerRepository, err = c.initOwnerRepository()
		if err != nil {
			c.setInitError("ownerRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ownerRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.ownerRepository, nil
}

// TokenRepository returns the token repository based on database driver.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.setInitError("tokenRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// OwnerUseCase returns the owner use case.
func (c *Container) OwnerUseCase() (authUseCase.OwnerUseCase, error) {
	var err error
	c.ownerUseCaseInit.Do(func() {
		c.ownerUseCase, err = c.initOwnerUseCase()
		if err != nil {
			c.setInitError("ownerUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ownerUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.ownerUseCase, nil
}

// TokenUseCase returns the token use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.setInitError("tokenUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the HTTP handler for token operations.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.setInitError("tokenHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initOwnerRepository creates the owner repository based on the database driver.
func (c *Container) initOwnerRepository() (authUseCase.OwnerRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for owner repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLOwnerRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLOwnerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenRepository creates the token repository based on the database driver.
func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOwnerUseCase creates the owner use case with all its dependencies.
func (c *Container) initOwnerUseCase() (authUseCase.OwnerUseCase, error) {
	ownerRepository, err := c.OwnerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get owner repository for owner use case: %w", err)
	}

	secretService, err := c.SecretService()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret service for owner use case: %w", err)
	}

	baseUseCase := authUseCase.NewOwnerUseCase(ownerRepository, secretService)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for owner use case: %w", err)
		}
		return authUseCase.NewOwnerUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	ownerRepository, err := c.OwnerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get owner repository for token use case: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	secretService, err := c.SecretService()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret service for token use case: %w", err)
	}

	baseUseCase := authUseCase.NewTokenUseCase(
		c.config,
		ownerRepository,
		tokenRepository,
		secretService,
		c.TokenService(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return authUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenHandler creates the token HTTP handler with all its dependencies.
func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}

	return authHTTP.NewTokenHandler(tokenUseCase, c.Logger()), nil
}
