package bootstrap

import (
	"fmt"
	"time"

	"secretpad/internal/config"

	"github.com/rs/zerolog/log"
)

type BootstrapApp struct {
	config   config.Config
	services Services
	context  struct {
		oauthProviders map[string]config.OAuthServiceConfig
	}
}

func NewBootstrapApp(config config.Config) *BootstrapApp {
	return &BootstrapApp{
		config: config,
	}
}

func (app *BootstrapApp) Setup() error {
	// OAuth providers, only the ones with credentials
	app.context.oauthProviders = make(map[string]config.OAuthServiceConfig)

	if app.config.GoogleClientID != "" && app.config.GoogleClientSecret != "" {
		app.context.oauthProviders["google"] = config.OAuthServiceConfig{
			ClientID:     app.config.GoogleClientID,
			ClientSecret: app.config.GoogleClientSecret,
			RedirectURL:  app.config.AppURL + "/auth/google/secrets",
			Name:         "Google",
		}
	}

	if app.config.FacebookAppID != "" && app.config.FacebookAppSecret != "" {
		app.context.oauthProviders["facebook"] = config.OAuthServiceConfig{
			ClientID:     app.config.FacebookAppID,
			ClientSecret: app.config.FacebookAppSecret,
			RedirectURL:  app.config.AppURL + "/auth/facebook/secret",
			Name:         "Facebook",
		}
	}

	log.Trace().Interface("providers", app.context.oauthProviders).Msg("OAuth providers dump")

	// Services
	services, err := app.initServices()

	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	app.services = services

	// Router
	router, err := app.setupRouter()

	if err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	// Session cleanup routine
	log.Debug().Msg("Starting session cleanup routine")
	go app.sessionCleanup()

	// Start server
	address := fmt.Sprintf("%s:%d", app.config.Address, app.config.Port)
	log.Info().Msgf("Starting server on %s", address)
	if err := router.Run(address); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	return nil
}

func (app *BootstrapApp) sessionCleanup() {
	ticker := time.NewTicker(time.Duration(30) * time.Minute)
	defer ticker.Stop()

	for ; true; <-ticker.C {
		log.Debug().Msg("Cleaning up expired sessions")
		err := app.services.authService.CleanupExpiredSessions()
		if err != nil {
			log.Error().Err(err).Msg("Failed to clean up expired sessions")
		}
	}
}
