package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"secretpad/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

var FacebookOAuthScopes = []string{"email", "public_profile"}

type FacebookUserInfoResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type FacebookOAuthService struct {
	config  oauth2.Config
	context context.Context
	name    string
}

func NewFacebookOAuthService(config config.OAuthServiceConfig) *FacebookOAuthService {
	return &FacebookOAuthService{
		config: oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       FacebookOAuthScopes,
			Endpoint:     endpoints.Facebook,
		},
		name: config.Name,
	}
}

func (facebook *FacebookOAuthService) Init() error {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	facebook.context = ctx
	return nil
}

func (facebook *FacebookOAuthService) GenerateState() string {
	b := make([]byte, 128)
	_, err := rand.Read(b)
	if err != nil {
		return base64.RawURLEncoding.EncodeToString(fmt.Appendf(nil, "state-%d", time.Now().UnixNano()))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (facebook *FacebookOAuthService) GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

func (facebook *FacebookOAuthService) GetAuthURL(state string, verifier string) string {
	return facebook.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (facebook *FacebookOAuthService) VerifyCode(code string, verifier string) (*oauth2.Token, error) {
	return facebook.config.Exchange(facebook.context, code, oauth2.VerifierOption(verifier))
}

func (facebook *FacebookOAuthService) Userinfo(token *oauth2.Token) (config.Claims, error) {
	var user config.Claims

	client := facebook.config.Client(facebook.context, token)

	res, err := client.Get("https://graph.facebook.com/me?fields=id,name,email")
	if err != nil {
		return config.Claims{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return user, fmt.Errorf("request failed with status: %s", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return config.Claims{}, err
	}

	var userInfo FacebookUserInfoResponse

	err = json.Unmarshal(body, &userInfo)
	if err != nil {
		return config.Claims{}, err
	}

	user.Name = userInfo.Name
	user.Email = userInfo.Email
	user.Sub = userInfo.ID

	return user, nil
}

func (facebook *FacebookOAuthService) GetName() string {
	return facebook.name
}
