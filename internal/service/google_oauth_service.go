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

var GoogleOAuthScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}

type GoogleUserInfoResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type GoogleOAuthService struct {
	config  oauth2.Config
	context context.Context
	name    string
}

func NewGoogleOAuthService(config config.OAuthServiceConfig) *GoogleOAuthService {
	return &GoogleOAuthService{
		config: oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       GoogleOAuthScopes,
			Endpoint:     endpoints.Google,
		},
		name: config.Name,
	}
}

func (google *GoogleOAuthService) Init() error {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	google.context = ctx
	return nil
}

func (google *GoogleOAuthService) GenerateState() string {
	b := make([]byte, 128)
	_, err := rand.Read(b)
	if err != nil {
		return base64.RawURLEncoding.EncodeToString(fmt.Appendf(nil, "state-%d", time.Now().UnixNano()))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (google *GoogleOAuthService) GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

func (google *GoogleOAuthService) GetAuthURL(state string, verifier string) string {
	return google.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
}

func (google *GoogleOAuthService) VerifyCode(code string, verifier string) (*oauth2.Token, error) {
	return google.config.Exchange(google.context, code, oauth2.VerifierOption(verifier))
}

func (google *GoogleOAuthService) Userinfo(token *oauth2.Token) (config.Claims, error) {
	var user config.Claims

	client := google.config.Client(google.context, token)

	res, err := client.Get("https://www.googleapis.com/userinfo/v2/me")
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

	var userInfo GoogleUserInfoResponse

	err = json.Unmarshal(body, &userInfo)
	if err != nil {
		return config.Claims{}, err
	}

	user.Name = userInfo.Name
	user.Email = userInfo.Email
	user.Sub = userInfo.ID

	return user, nil
}

func (google *GoogleOAuthService) GetName() string {
	return google.name
}
