package bootstrap

import (
	"secretpad/internal/config"
	"secretpad/internal/service"
)

type Services struct {
	databaseService    *service.DatabaseService
	userService        *service.UserService
	authService        *service.AuthService
	oauthBrokerService *service.OAuthBrokerService
}

func (app *BootstrapApp) initServices() (Services, error) {
	services := Services{}

	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: app.config.DatabasePath,
	})

	err := databaseService.Init()

	if err != nil {
		return Services{}, err
	}

	services.databaseService = databaseService

	userService := service.NewUserService(service.UserServiceConfig{
		LoginTimeout:    app.config.LoginTimeout,
		LoginMaxRetries: app.config.LoginMaxRetries,
	}, databaseService.GetDatabase())

	services.userService = userService

	authService := service.NewAuthService(service.AuthServiceConfig{
		Secret:            app.config.Secret,
		SessionExpiry:     app.config.SessionExpiry,
		SecureCookie:      app.config.SecureCookie,
		SessionCookieName: config.SessionCookieName,
	}, userService, databaseService.GetDatabase())

	err = authService.Init()

	if err != nil {
		return Services{}, err
	}

	services.authService = authService

	oauthBrokerService := service.NewOAuthBrokerService(app.context.oauthProviders)

	err = oauthBrokerService.Init()

	if err != nil {
		return Services{}, err
	}

	services.oauthBrokerService = oauthBrokerService

	return services, nil
}
