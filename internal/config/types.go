package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string `env:"DB_NAME" envDefault:"boardgames.db"`
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Telegram  TelegramConfig
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string `env:"GCP_PROJECT"`
}

type TelegramConfig struct {
	Token string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
}

// SlackConfig is optional. Without a token, announcements are disabled and
// without a signing secret the slash command endpoint rejects every request.
type SlackConfig struct {
	Token         string `env:"SLACK_BOT_TOKEN"`
	ChannelID     string `env:"SLACK_CHANNEL_ID"`
	SigningSecret string `env:"SLACK_SIGNING_SECRET"`
}

// TursoConfig selects a remote libSQL database when PrimaryURL is set.
type TursoConfig struct {
	PrimaryURL string `env:"TURSO_PRIMARY_URL"`
	AuthToken  string `env:"TURSO_AUTH_TOKEN"`
}
