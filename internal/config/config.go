package config

// Version information, set at build time

var Version = "development"
var CommitHash = "development"
var BuildTimestamp = "0000-00-00T00:00:00Z"

// Cookie names

var SessionCookieName = "secretpad-session"
var CSRFCookieName = "secretpad-csrf"

// Main app config

type Config struct {
	Port               int    `mapstructure:"port" validate:"required"`
	Address            string `validate:"required,ip4_addr" mapstructure:"address"`
	AppURL             string `validate:"required,url" mapstructure:"app-url"`
	Secret             string `mapstructure:"secret" validate:"required,min=8"`
	DatabasePath       string `mapstructure:"database-path" validate:"required"`
	GoogleClientID     string `mapstructure:"google-client-id"`
	GoogleClientSecret string `mapstructure:"google-client-secret"`
	FacebookAppID      string `mapstructure:"facebook-app-id"`
	FacebookAppSecret  string `mapstructure:"facebook-app-secret"`
	SessionExpiry      int    `mapstructure:"session-expiry"`
	LoginTimeout       int    `mapstructure:"login-timeout"`
	LoginMaxRetries    int    `mapstructure:"login-max-retries"`
	SecureCookie       bool   `mapstructure:"secure-cookie"`
	LogLevel           string `mapstructure:"log-level" validate:"oneof=trace debug info warn error fatal panic"`
}

// OAuth config

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Sub   string `json:"sub"`
}

type OAuthServiceConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Name         string
}

// User context resolved from the session cookie, attached to every
// request by the context middleware.

type UserContext struct {
	UserID     string
	Username   string
	Provider   string
	IsLoggedIn bool
}
