package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Config is built once at startup and passed explicitly to every component.
// No package reads the environment after Load returns.
type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	Discord struct {
		Token   string
		AppID   string
		GuildID string
		// AdminID — optional superuser; empty means admin checks pass for
		// everyone (the original behaviour of an unset ADMIN_ID).
		AdminID string
		// StaffRoleID — role granted elevated access on every ticket channel.
		StaffRoleID string
		// TicketParentID — optional channel category to create tickets under.
		TicketParentID string
	}

	Pix struct {
		Key      string
		Deadline string
	}

	Kafka struct {
		Brokers string
		Topic   string
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:  getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort: firstEnv("APP_PORT", "HTTP_PORT", "8098"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	cfg.Discord.Token = getEnv("TOKEN", "")
	cfg.Discord.AppID = getEnv("CLIENT_ID", "")
	cfg.Discord.GuildID = getEnv("GUILD_ID", "")
	cfg.Discord.AdminID = getEnv("ADMIN_ID", "")
	cfg.Discord.StaffRoleID = getEnv("STAFF_ROLE_ID", "")
	cfg.Discord.TicketParentID = getEnv("TICKET_CATEGORY_ID", "")

	cfg.Pix.Key = getEnv("PIX_KEY", "")
	cfg.Pix.Deadline = getEnv("PIX_DEADLINE", "até 30 minutos após confirmação")

	cfg.Kafka.Brokers = getEnv("KAFKA_BROKERS", "")
	cfg.Kafka.Topic = getEnv("KAFKA_TICKET_TOPIC", "ticket-events")

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "ticketbot")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Discord.Token == "" || c.Discord.GuildID == "" {
		return errors.New("config: TOKEN and GUILD_ID are required")
	}
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// IsAdmin reports whether userID is the configured superuser. An unset
// ADMIN_ID disables the check entirely rather than locking everyone out.
func (c *Config) IsAdmin(userID string) bool {
	if c.Discord.AdminID == "" {
		return true
	}
	return userID == c.Discord.AdminID
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
