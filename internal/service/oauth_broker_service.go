package service

import (
	"errors"
	"sort"

	"secretpad/internal/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// OAuthService implementations hold no per-flow state. The verifier and
// token travel with the request so concurrent logins cannot interfere.
type OAuthService interface {
	Init() error
	GenerateState() string
	GenerateVerifier() string
	GetAuthURL(state string, verifier string) string
	VerifyCode(code string, verifier string) (*oauth2.Token, error)
	Userinfo(token *oauth2.Token) (config.Claims, error)
	GetName() string
}

type OAuthBrokerService struct {
	services map[string]OAuthService
	configs  map[string]config.OAuthServiceConfig
}

func NewOAuthBrokerService(configs map[string]config.OAuthServiceConfig) *OAuthBrokerService {
	return &OAuthBrokerService{
		services: make(map[string]OAuthService),
		configs:  configs,
	}
}

func (broker *OAuthBrokerService) Init() error {
	for name, cfg := range broker.configs {
		switch name {
		case "google":
			broker.services[name] = NewGoogleOAuthService(cfg)
		case "facebook":
			broker.services[name] = NewFacebookOAuthService(cfg)
		default:
			return errors.New("unknown oauth provider: " + name)
		}
	}

	for name, service := range broker.services {
		err := service.Init()
		if err != nil {
			log.Error().Err(err).Str("service", name).Msg("Failed to initialize OAuth service")
			return err
		}
		log.Info().Str("service", name).Msg("Initialized OAuth service")
	}

	return nil
}

func (broker *OAuthBrokerService) GetConfiguredServices() []string {
	services := make([]string, 0, len(broker.services))
	for name := range broker.services {
		services = append(services, name)
	}
	sort.Strings(services)
	return services
}

func (broker *OAuthBrokerService) GetService(name string) (OAuthService, bool) {
	service, exists := broker.services[name]
	return service, exists
}

func (broker *OAuthBrokerService) GetUser(service string, token *oauth2.Token) (config.Claims, error) {
	oauthService, exists := broker.services[service]
	if !exists {
		return config.Claims{}, errors.New("oauth service not found")
	}
	return oauthService.Userinfo(token)
}
