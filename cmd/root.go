package cmd

import (
	"secretpad/internal/bootstrap"
	"secretpad/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "secretpad",
	Short: "A tiny web app for keeping a private list of secrets.",
	Long:  `Secretpad is a small web application where users register or sign in with Google/Facebook and keep a private, append-only list of secret notes.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("Parsing config")
		var conf config.Config
		err := viper.Unmarshal(&conf)
		HandleError(err, "Failed to parse config")

		log.Info().Msg("Validating config")
		validate := validator.New()
		err = validate.Struct(conf)
		HandleError(err, "Invalid config")

		level, err := zerolog.ParseLevel(conf.LogLevel)
		HandleError(err, "Invalid log level")
		zerolog.SetGlobalLevel(level)

		app := bootstrap.NewBootstrapApp(conf)
		err = app.Setup()
		HandleError(err, "Failed to start app")
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}

func HandleError(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}

func init() {
	// Optional .env file, ignored when missing
	_ = godotenv.Load()

	viper.AutomaticEnv()
	rootCmd.Flags().Int("port", 3000, "Port to run the server on.")
	rootCmd.Flags().String("address", "0.0.0.0", "Address to bind the server to.")
	rootCmd.Flags().String("app-url", "http://localhost:3000", "Public URL of the app, used to build OAuth callback URLs.")
	rootCmd.Flags().String("secret", "", "Secret used to sign the session cookie.")
	rootCmd.Flags().String("database-path", "secretpad.db", "Path to the sqlite database file.")
	rootCmd.Flags().String("google-client-id", "", "Google OAuth client ID.")
	rootCmd.Flags().String("google-client-secret", "", "Google OAuth client secret.")
	rootCmd.Flags().String("facebook-app-id", "", "Facebook OAuth app ID.")
	rootCmd.Flags().String("facebook-app-secret", "", "Facebook OAuth app secret.")
	rootCmd.Flags().Int("session-expiry", 86400, "Session expiration time in seconds.")
	rootCmd.Flags().Int("login-timeout", 3600, "Account lockout duration in seconds after too many failed logins.")
	rootCmd.Flags().Int("login-max-retries", 4, "Failed login attempts before an account is locked.")
	rootCmd.Flags().Bool("secure-cookie", false, "Send cookies over secure connections only.")
	rootCmd.Flags().String("log-level", "info", "Log level.")
	viper.BindEnv("port", "PORT")
	viper.BindEnv("address", "ADDRESS")
	viper.BindEnv("app-url", "APP_URL")
	viper.BindEnv("secret", "SECRET")
	viper.BindEnv("database-path", "DATABASE_PATH")
	viper.BindEnv("google-client-id", "GOOGLE_CLIENT_ID")
	viper.BindEnv("google-client-secret", "GOOGLE_CLIENT_SECRET")
	viper.BindEnv("facebook-app-id", "FACEBOOK_APP_ID")
	viper.BindEnv("facebook-app-secret", "FACEBOOK_APP_SECRET")
	viper.BindEnv("session-expiry", "SESSION_EXPIRY")
	viper.BindEnv("login-timeout", "LOGIN_TIMEOUT")
	viper.BindEnv("login-max-retries", "LOGIN_MAX_RETRIES")
	viper.BindEnv("secure-cookie", "SECURE_COOKIE")
	viper.BindEnv("log-level", "LOG_LEVEL")
	viper.BindPFlags(rootCmd.Flags())
}
