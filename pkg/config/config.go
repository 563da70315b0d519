package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Discord   DiscordConfig   `json:"discord"`
	Roster    RosterConfig    `json:"roster"`
	Store     StoreConfig     `json:"store"`
	Dashboard DashboardConfig `json:"dashboard"`
	Announce  AnnounceConfig  `json:"announce"`
}

type DiscordConfig struct {
	Token          string   `env:"MUSTER_DISCORD_TOKEN"           json:"token"`
	GuildID        string   `env:"MUSTER_DISCORD_GUILD_ID"        json:"guild_id"`
	AllowFrom      []string `env:"MUSTER_DISCORD_ALLOW_FROM"      json:"allow_from"`
	RsvpBotID      int64    `env:"MUSTER_DISCORD_RSVP_BOT_ID"     json:"rsvp_bot_id"`
	SelectTimeout  int      `env:"MUSTER_DISCORD_SELECT_TIMEOUT"  json:"select_timeout"` // seconds
	TentativeField string   `env:"MUSTER_DISCORD_TENTATIVE_FIELD" json:"tentative_field"`
}

type RosterConfig struct {
	Labels     map[string]string `json:"labels"`
	MaxMessage int               `env:"MUSTER_ROSTER_MAX_MESSAGE" json:"max_message"` // runes
}

type StoreConfig struct {
	Path string `env:"MUSTER_STORE_PATH" json:"path"`
}

type DashboardConfig struct {
	Enabled bool   `env:"MUSTER_DASHBOARD_ENABLED"  json:"enabled"`
	BaseURL string `env:"MUSTER_DASHBOARD_BASE_URL" json:"base_url"`
	APIKey  string `env:"MUSTER_DASHBOARD_API_KEY"  json:"api_key"`
}

type AnnounceConfig struct {
	Enabled   bool   `env:"MUSTER_ANNOUNCE_ENABLED"    json:"enabled"`
	Cron      string `env:"MUSTER_ANNOUNCE_CRON"       json:"cron"`
	ChannelID string `env:"MUSTER_ANNOUNCE_CHANNEL_ID" json:"channel_id"`
	Template  string `env:"MUSTER_ANNOUNCE_TEMPLATE"   json:"template"`
}

// DefaultConfig returns the built-in defaults. The RSVP bot id defaults to
// the Apollo event bot; the rest matches platform limits.
func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			RsvpBotID:      475744554910351370,
			SelectTimeout:  60,
			TentativeField: "❔",
		},
		Roster: RosterConfig{
			Labels:     map[string]string{},
			MaxMessage: 2000,
		},
		Store: StoreConfig{
			Path: "muster.db",
		},
		Announce: AnnounceConfig{
			Cron:     "0 9 * * *",
			Template: "Upcoming matches:\n%s",
		},
	}
}

// LoadConfig reads the JSON config at path (missing file means defaults)
// and applies MUSTER_* environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks the invariants the gateway relies on.
func (c *Config) Validate() error {
	if c.Discord.SelectTimeout <= 0 {
		return errors.New("discord.select_timeout must be positive")
	}
	if c.Roster.MaxMessage <= 0 {
		return errors.New("roster.max_message must be positive")
	}
	if c.Announce.Enabled && c.Announce.ChannelID == "" {
		return errors.New("announce.channel_id is required when announce is enabled")
	}
	if c.Dashboard.Enabled && c.Dashboard.BaseURL == "" {
		return errors.New("dashboard.base_url is required when dashboard is enabled")
	}
	return nil
}
