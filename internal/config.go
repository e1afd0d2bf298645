package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"squad-arena/internal/game"
)

type Config struct {
	Port         string        `mapstructure:"port"`
	DatabaseURL  string        `mapstructure:"database_url"`
	DBPath       string        `mapstructure:"db_path"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	AdminID      string        `mapstructure:"admin_id"`
	AdminPW      string        `mapstructure:"admin_pw"`
	RedisURL     string        `mapstructure:"redis_url"`
	LogMode      string        `mapstructure:"log_mode"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	CatalogFile  string        `mapstructure:"catalog_file"`

	DrawCost         int64   `mapstructure:"draw_cost"`
	DrawMaxAttempts  int     `mapstructure:"draw_max_attempts"`
	DrawRerollChance float64 `mapstructure:"draw_reroll_chance"`
	EnhanceBaseCost  int64   `mapstructure:"enhance_base_cost"`
	StartingCash     int64   `mapstructure:"starting_cash"`
	MaxRankGap       int     `mapstructure:"max_rank_gap"`
	LobbyWindow      int     `mapstructure:"lobby_window"`
	CashTopUpLimit   int64   `mapstructure:"cash_topup_limit"`
}

func setDefaults(v *viper.Viper) {
	def := game.DefaultRules()
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("db_path", "squad-arena.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", time.Hour)
	v.SetDefault("admin_id", "")
	v.SetDefault("admin_pw", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("log_mode", "dev")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("catalog_file", "")

	v.SetDefault("draw_cost", def.DrawCost)
	v.SetDefault("draw_max_attempts", def.DrawMaxAttempts)
	v.SetDefault("draw_reroll_chance", def.DrawRerollChance)
	v.SetDefault("enhance_base_cost", def.EnhanceBaseCost)
	v.SetDefault("starting_cash", def.StartingCash)
	v.SetDefault("max_rank_gap", def.MaxRankGap)
	v.SetDefault("lobby_window", 50)
	v.SetDefault("cash_topup_limit", def.CashTopUpLimit)
}

// LoadConfig reads .env files when present, then the environment and an
// optional YAML file named by CONFIG_FILE. Environment wins over the file.
func LoadConfig() (*Config, error) {
	// Load stops at the first missing file and never overrides, so the
	// more specific file goes first.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.DrawRerollChance < 0 || c.DrawRerollChance > 1 {
		return errors.New("DRAW_REROLL_CHANCE must be within 0..1")
	}
	if c.DrawMaxAttempts < 1 {
		return errors.New("DRAW_MAX_ATTEMPTS must be at least 1")
	}
	switch c.LogMode {
	case "dev", "prod", "silent":
	default:
		return fmt.Errorf("LOG_MODE %q: want dev, prod or silent", c.LogMode)
	}
	return nil
}

// Rules returns the game rules with the configured overrides applied.
func (c *Config) Rules() game.Rules {
	r := game.DefaultRules()
	r.DrawCost = c.DrawCost
	r.DrawMaxAttempts = c.DrawMaxAttempts
	r.DrawRerollChance = c.DrawRerollChance
	r.EnhanceBaseCost = c.EnhanceBaseCost
	r.StartingCash = c.StartingCash
	r.MaxRankGap = c.MaxRankGap
	r.CashTopUpLimit = c.CashTopUpLimit
	return r
}
