package bootstrap

import (
	"fmt"
	"html/template"

	"secretpad/internal/assets"
	"secretpad/internal/config"
	"secretpad/internal/controller"
	"secretpad/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (app *BootstrapApp) setupRouter() (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())

	templates, err := template.ParseFS(assets.Templates, "templates/*.html")

	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine.SetHTMLTemplate(templates)

	contextMiddleware := middleware.NewContextMiddleware(app.services.authService, app.services.userService)

	err = contextMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize context middleware: %w", err)
	}

	engine.Use(contextMiddleware.Middleware())

	zerologMiddleware := middleware.NewZerologMiddleware()

	err = zerologMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize zerolog middleware: %w", err)
	}

	engine.Use(zerologMiddleware.Middleware())

	pageController := controller.NewPageController(&engine.RouterGroup, app.services.authService, app.services.userService, app.services.oauthBrokerService)

	pageController.SetupRoutes()

	oauthController := controller.NewOAuthController(controller.OAuthControllerConfig{
		CSRFCookieName: config.CSRFCookieName,
		SecureCookie:   app.config.SecureCookie,
	}, &engine.RouterGroup, app.services.authService, app.services.oauthBrokerService)

	oauthController.SetupRoutes()

	healthController := controller.NewHealthController(&engine.RouterGroup)

	healthController.SetupRoutes()

	return engine, nil
}
