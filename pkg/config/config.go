package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

type Config struct {
	ListenAddress string        `env:"LISTEN_ADDRESS" envDefault:":8080"`
	DebugAddress  string        `env:"DEBUG_ADDRESS" envDefault:":8081"`
	DataDir       string        `env:"DATA_DIR" envDefault:"data"`
	CatalogFile   string        `env:"CATALOG_FILE" envDefault:"catalog.yaml"`
	GroupFacet    string        `env:"GROUP_FACET" envDefault:"type"`
	CollateLocale string        `env:"COLLATE_LOCALE" envDefault:"en"`
	MemoLimit     int           `env:"MEMO_LIMIT" envDefault:"256"`
	RedisUrl      string        `env:"REDIS_URL"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RabbitUrl     string        `env:"RABBIT_URL"`
	TopicPrefix   string        `env:"TOPIC_PREFIX" envDefault:"catalog"`
	Debug         bool          `env:"DEBUG"`
	Timeouts      common.TimeoutConfig
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment win over dotenv values.
func Load(dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CatalogFile == "" {
		return errors.New("config: CATALOG_FILE is empty")
	}
	if c.GroupFacet == "" {
		return errors.New("config: GROUP_FACET is empty")
	}
	if _, err := c.Locale(); err != nil {
		return err
	}
	return nil
}

// Locale is the collation locale used by the alphabetical sort.
func (c *Config) Locale() (language.Tag, error) {
	tag, err := language.Parse(c.CollateLocale)
	if err != nil {
		return language.Und, fmt.Errorf("config: COLLATE_LOCALE %q: %w", c.CollateLocale, err)
	}
	return tag, nil
}
