package controller

import (
	"errors"
	"net/http"

	"secretpad/internal/service"
	"secretpad/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RegisterRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type SubmitRequest struct {
	Secret string `form:"secret"`
}

type ProviderLink struct {
	Name  string
	Label string
}

type PageController struct {
	router *gin.RouterGroup
	auth   *service.AuthService
	users  *service.UserService
	broker *service.OAuthBrokerService
}

func NewPageController(router *gin.RouterGroup, auth *service.AuthService, users *service.UserService, broker *service.OAuthBrokerService) *PageController {
	return &PageController{
		router: router,
		auth:   auth,
		users:  users,
		broker: broker,
	}
}

func (controller *PageController) SetupRoutes() {
	controller.router.GET("/", controller.homeHandler)
	controller.router.GET("/register", controller.registerFormHandler)
	controller.router.POST("/register", controller.registerHandler)
	controller.router.GET("/login", controller.loginFormHandler)
	controller.router.POST("/login", controller.loginHandler)
	controller.router.GET("/secrets", controller.secretsHandler)
	controller.router.GET("/submit", controller.submitFormHandler)
	controller.router.POST("/submit", controller.submitHandler)
	controller.router.GET("/logout", controller.logoutHandler)
}

func (controller *PageController) homeHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

func (controller *PageController) registerFormHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Error": "",
	})
}

func (controller *PageController) registerHandler(c *gin.Context) {
	var req RegisterRequest

	err := c.ShouldBind(&req)
	if err != nil || req.Username == "" || req.Password == "" {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "Email and password are required.",
		})
		return
	}

	user, err := controller.users.CreateLocal(req.Username, req.Password)

	if errors.Is(err, service.ErrDuplicateUsername) {
		log.Warn().Str("username", req.Username).Msg("Registration attempt with taken username")
		c.HTML(http.StatusConflict, "register.html", gin.H{
			"Error": "A user with that email already exists.",
		})
		return
	}

	if err != nil {
		log.Error().Err(err).Msg("Failed to register user")
		renderError(c)
		return
	}

	err = controller.auth.CreateSessionCookie(c, user, "local")

	if err != nil {
		log.Error().Err(err).Msg("Failed to create session cookie")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}

func (controller *PageController) loginFormHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error":     controller.auth.PopFlash(c),
		"Providers": controller.providerLinks(),
	})
}

func (controller *PageController) providerLinks() []ProviderLink {
	names := controller.broker.GetConfiguredServices()
	links := make([]ProviderLink, 0, len(names))
	for _, name := range names {
		links = append(links, ProviderLink{Name: name, Label: utils.Capitalize(name)})
	}
	return links
}

func (controller *PageController) loginHandler(c *gin.Context) {
	var req LoginRequest

	err := c.ShouldBind(&req)
	if err != nil || req.Username == "" || req.Password == "" {
		controller.flashAndRetry(c, "Email and password are required.")
		return
	}

	user, err := controller.auth.VerifyLocal(req.Username, req.Password)

	switch {
	case errors.Is(err, service.ErrAccountLocked):
		controller.flashAndRetry(c, "Too many failed attempts, try again later.")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		controller.flashAndRetry(c, "Invalid email or password.")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to verify credentials")
		renderError(c)
		return
	}

	err = controller.auth.CreateSessionCookie(c, user, "local")

	if err != nil {
		log.Error().Err(err).Msg("Failed to create session cookie")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}

func (controller *PageController) secretsHandler(c *gin.Context) {
	context, err := utils.GetContext(c)

	if err != nil || !context.IsLoggedIn {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	secrets, err := controller.users.SecretsForUser(context.UserID)

	if err != nil {
		log.Error().Err(err).Str("username", context.Username).Msg("Failed to load secrets")
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "secrets.html", gin.H{
		"Secrets": secrets,
	})
}

func (controller *PageController) submitFormHandler(c *gin.Context) {
	context, err := utils.GetContext(c)

	if err != nil || !context.IsLoggedIn {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.HTML(http.StatusOK, "submit.html", gin.H{})
}

func (controller *PageController) submitHandler(c *gin.Context) {
	context, err := utils.GetContext(c)

	if err != nil || !context.IsLoggedIn {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var req SubmitRequest

	err = c.ShouldBind(&req)
	if err != nil || req.Secret == "" {
		c.Redirect(http.StatusSeeOther, "/submit")
		return
	}

	err = controller.users.AppendSecret(context.UserID, req.Secret)

	if err != nil {
		log.Error().Err(err).Str("username", context.Username).Msg("Failed to store secret")
		renderError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}

func (controller *PageController) logoutHandler(c *gin.Context) {
	err := controller.auth.DeleteSessionCookie(c)

	if err != nil {
		log.Error().Err(err).Msg("Failed to delete session cookie")
	}

	c.Redirect(http.StatusFound, "/")
}

func (controller *PageController) flashAndRetry(c *gin.Context, message string) {
	if err := controller.auth.SetFlash(c, message); err != nil {
		log.Error().Err(err).Msg("Failed to set flash message")
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func renderError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Message": "The request could not be completed, please try again.",
	})
}
