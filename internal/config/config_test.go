package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN", "tok")
	t.Setenv("GUILD_ID", "guild")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "8098" || cfg.AppEnv != "development" {
		t.Fatalf("defaults = %q / %q", cfg.HTTPPort, cfg.AppEnv)
	}
	if cfg.Kafka.Topic != "ticket-events" {
		t.Fatalf("kafka topic = %q", cfg.Kafka.Topic)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresDiscordSettings(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Host = "localhost"
	cfg.DB.Database = "ticketbot"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate must fail without TOKEN and GUILD_ID")
	}
	cfg.Discord.Token = "tok"
	cfg.Discord.GuildID = "guild"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateProductionPassword(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	cfg.Discord.Token = "tok"
	cfg.Discord.GuildID = "guild"
	cfg.DB.Host = "db"
	cfg.DB.Database = "ticketbot"
	if err := cfg.Validate(); err == nil {
		t.Fatal("production without DB_PASSWORD must fail validation")
	}
	cfg.DB.Password = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDatabaseURLEscapesPassword(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Host = "db"
	cfg.DB.Port = "5432"
	cfg.DB.User = "postgres"
	cfg.DB.Password = "p@ss/word"
	cfg.DB.Database = "ticketbot"
	cfg.DB.SSLMode = "disable"

	want := "postgres://postgres:p%40ss%2Fword@db:5432/ticketbot?sslmode=disable"
	if got := cfg.DatabaseURL(); got != want {
		t.Fatalf("DatabaseURL = %q, want %q", got, want)
	}
}

// An unset admin id means every caller passes the admin check; a set one
// restricts it to the exact id.
func TestIsAdmin(t *testing.T) {
	cfg := &Config{}
	if !cfg.IsAdmin("anyone") {
		t.Fatal("unset admin id must allow everyone")
	}
	cfg.Discord.AdminID = "admin-1"
	if !cfg.IsAdmin("admin-1") || cfg.IsAdmin("someone-else") {
		t.Fatal("set admin id must match exactly")
	}
}
