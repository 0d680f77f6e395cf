package app

import (
	"fmt"

	apikeyHTTP "github.com/allisson/apikeys/internal/apikey/http"
	apikeyRepository "github.com/allisson/apikeys/internal/apikey/repository"
	apikeyService "github.com/allisson/apikeys/internal/apikey/service"
	apikeyUseCase "github.com/allisson/apikeys/internal/apikey/usecase"
)

// SecretCodec returns the codec that generates and hashes API key secrets.
func (c *Container) SecretCodec() (apikeyService.SecretCodec, error) {
	var err error
	c.secretCodecInit.Do(func() {
		c.secretCodec, err = apikeyService.NewSecretCodec(c.config.APIKeyHashAlgorithm, c.config.APIKeyBcryptCost)
		if err != nil {
			c.setInitError("secretCodec", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretCodec"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretCodec, nil
}

// APIKeyRepository returns the API key repository based on database driver.
func (c *Container) APIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepositoryInit.Do(func() {
		c.apiKeyRepository, err = c.initAPIKeyRepository()
		if err != nil {
			c.setInitError("apiKeyRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyRepository, nil
}

// AccessLogRepository returns the access log repository based on database driver.
func (c *Container) AccessLogRepository() (apikeyUseCase.AccessLogRepository, error) {
	var err error
	c.accessLogRepositoryInit.Do(func() {
		c.accessLogRepository, err = c.initAccessLogRepository()
		if err != nil {
			c.setInitError("accessLogRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accessLogRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.accessLogRepository, nil
}

// APIKeyUseCase returns the API key lifecycle use case.
func (c *Container) APIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		if err != nil {
			c.setInitError("apiKeyUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// VerificationUseCase returns the use case that verifies presented API keys.
func (c *Container) VerificationUseCase() (apikeyUseCase.VerificationUseCase, error) {
	var err error
	c.verificationUseCaseInit.Do(func() {
		c.verificationUseCase, err = c.initVerificationUseCase()
		if err != nil {
			c.setInitError("verificationUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("verificationUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.verificationUseCase, nil
}

// AccessLogUseCase returns the access log maintenance use case.
func (c *Container) AccessLogUseCase() (apikeyUseCase.AccessLogUseCase, error) {
	var err error
	c.accessLogUseCaseInit.Do(func() {
		c.accessLogUseCase, err = c.initAccessLogUseCase()
		if err != nil {
			c.setInitError("accessLogUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accessLogUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.accessLogUseCase, nil
}

// AccessRecorder returns the asynchronous access log recorder.
// Its workers are not running until Start is called.
func (c *Container) AccessRecorder() (*apikeyUseCase.AccessRecorder, error) {
	var err error
	c.accessRecorderInit.Do(func() {
		c.accessRecorder, err = c.initAccessRecorder()
		if err != nil {
			c.setInitError("accessRecorder", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accessRecorder"); storedErr != nil {
		return nil, storedErr
	}
	return c.accessRecorder, nil
}

// APIKeyHandler returns the HTTP handler for API key management.
func (c *Container) APIKeyHandler() (*apikeyHTTP.APIKeyHandler, error) {
	var err error
	c.apiKeyHandlerInit.Do(func() {
		c.apiKeyHandler, err = c.initAPIKeyHandler()
		if err != nil {
			c.setInitError("apiKeyHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyHandler, nil
}

// ProtectedHandler returns the handler for the API-key-protected sample resource.
func (c *Container) ProtectedHandler() *apikeyHTTP.ProtectedHandler {
	c.protectedHandlerInit.Do(func() {
		c.protectedHandler = apikeyHTTP.NewProtectedHandler(c.Logger())
	})
	return c.protectedHandler
}

// initAPIKeyRepository creates the API key repository based on the database driver.
func (c *Container) initAPIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return apikeyRepository.NewPostgreSQLAPIKeyRepository(db), nil
	case "mysql":
		return apikeyRepository.NewMySQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessLogRepository creates the access log repository based on the database driver.
func (c *Container) initAccessLogRepository() (apikeyUseCase.AccessLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return apikeyRepository.NewPostgreSQLAccessLogRepository(db), nil
	case "mysql":
		return apikeyRepository.NewMySQLAccessLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAPIKeyUseCase creates the API key use case with all its dependencies.
func (c *Container) initAPIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}

	apiKeyRepository, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	codec, err := c.SecretCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret codec for api key use case: %w", err)
	}

	baseUseCase := apikeyUseCase.NewAPIKeyUseCase(
		txManager,
		apiKeyRepository,
		codec,
		c.config.APIKeyMaxActiveKeys,
		c.config.APIKeyRotationGracePeriod,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
		}
		return apikeyUseCase.NewAPIKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initVerificationUseCase creates the verification use case with all its dependencies.
func (c *Container) initVerificationUseCase() (apikeyUseCase.VerificationUseCase, error) {
	apiKeyRepository, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for verification use case: %w", err)
	}

	codec, err := c.SecretCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret codec for verification use case: %w", err)
	}

	baseUseCase := apikeyUseCase.NewVerificationUseCase(apiKeyRepository, codec)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for verification use case: %w", err)
		}
		return apikeyUseCase.NewVerificationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccessLogUseCase creates the access log use case with all its dependencies.
func (c *Container) initAccessLogUseCase() (apikeyUseCase.AccessLogUseCase, error) {
	accessLogRepository, err := c.AccessLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log repository for access log use case: %w", err)
	}

	baseUseCase := apikeyUseCase.NewAccessLogUseCase(accessLogRepository)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access log use case: %w", err)
		}
		return apikeyUseCase.NewAccessLogUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccessRecorder creates the access recorder backed by the access log repository.
func (c *Container) initAccessRecorder() (*apikeyUseCase.AccessRecorder, error) {
	accessLogRepository, err := c.AccessLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log repository for access recorder: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for access recorder: %w", err)
	}

	return apikeyUseCase.NewAccessRecorder(
		accessLogRepository,
		c.config.AccessLogBufferSize,
		c.config.AccessLogWorkers,
		c.config.AccessLogWriteTimeout,
		businessMetrics,
		c.Logger(),
	), nil
}

// initAPIKeyHandler creates the API key HTTP handler with all its dependencies.
func (c *Container) initAPIKeyHandler() (*apikeyHTTP.APIKeyHandler, error) {
	apiKeyUseCase, err := c.APIKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key use case for api key handler: %w", err)
	}

	return apikeyHTTP.NewAPIKeyHandler(apiKeyUseCase, c.Logger()), nil
}
