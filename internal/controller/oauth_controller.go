package controller

import (
	"net/http"
	"strings"
	"time"

	"secretpad/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type OAuthRequest struct {
	Provider string `uri:"provider" binding:"required"`
}

type OAuthControllerConfig struct {
	CSRFCookieName string
	SecureCookie   bool
}

type OAuthController struct {
	Config OAuthControllerConfig
	Router *gin.RouterGroup
	Auth   *service.AuthService
	Broker *service.OAuthBrokerService
}

func NewOAuthController(config OAuthControllerConfig, router *gin.RouterGroup, auth *service.AuthService, broker *service.OAuthBrokerService) *OAuthController {
	return &OAuthController{
		Config: config,
		Router: router,
		Auth:   auth,
		Broker: broker,
	}
}

func (controller *OAuthController) SetupRoutes() {
	authGroup := controller.Router.Group("/auth")
	authGroup.GET("/:provider", controller.oauthBeginHandler)
	// Callback paths differ per provider, both land on the same handler
	authGroup.GET("/:provider/secrets", controller.oauthCallbackHandler)
	authGroup.GET("/:provider/secret", controller.oauthCallbackHandler)
}

func (controller *OAuthController) oauthBeginHandler(c *gin.Context) {
	var req OAuthRequest

	err := c.BindUri(&req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bind URI")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	oauthService, exists := controller.Broker.GetService(req.Provider)

	if !exists {
		log.Warn().Str("provider", req.Provider).Msg("OAuth provider not found")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	state := oauthService.GenerateState()
	verifier := oauthService.GenerateVerifier()
	authURL := oauthService.GetAuthURL(state, verifier)

	// State and verifier are per-flow, so they ride in the cookie rather
	// than living on the provider service.
	c.SetCookie(controller.Config.CSRFCookieName, state+"."+verifier, int(time.Hour.Seconds()), "/", "", controller.Config.SecureCookie, true)
	c.Redirect(http.StatusFound, authURL)
}

func (controller *OAuthController) oauthCallbackHandler(c *gin.Context) {
	var req OAuthRequest

	err := c.BindUri(&req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bind URI")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	state := c.Query("state")
	csrfCookie, err := c.Cookie(controller.Config.CSRFCookieName)

	cookieState, verifier, found := strings.Cut(csrfCookie, ".")

	if err != nil || !found || state == "" || state != cookieState {
		log.Warn().Err(err).Msg("CSRF token mismatch or cookie missing")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	c.SetCookie(controller.Config.CSRFCookieName, "", -1, "/", "", controller.Config.SecureCookie, true)

	oauthService, exists := controller.Broker.GetService(req.Provider)

	if !exists {
		log.Warn().Str("provider", req.Provider).Msg("OAuth provider not found")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	token, err := oauthService.VerifyCode(c.Query("code"), verifier)
	if err != nil {
		log.Error().Err(err).Str("provider", req.Provider).Msg("Failed to verify OAuth code")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	claims, err := controller.Broker.GetUser(req.Provider, token)
	if err != nil {
		log.Error().Err(err).Str("provider", req.Provider).Msg("Failed to get user from OAuth provider")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	user, err := controller.Auth.ResolveOAuthIdentity(req.Provider, claims)
	if err != nil {
		log.Error().Err(err).Str("provider", req.Provider).Msg("Failed to resolve OAuth identity")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	err = controller.Auth.CreateSessionCookie(c, user, req.Provider)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session cookie")
		controller.failLogin(c, "Sign in failed, please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/secrets")
}

func (controller *OAuthController) failLogin(c *gin.Context, message string) {
	if err := controller.Auth.SetFlash(c, message); err != nil {
		log.Error().Err(err).Msg("Failed to set flash message")
	}
	c.Redirect(http.StatusFound, "/login")
}
