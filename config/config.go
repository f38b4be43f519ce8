// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/minaorangina/cadena/game"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port           int           `env:"PORT,default=8000"`
	AllowedOrigins string        `env:"ALLOWED_ORIGINS,default=*"`
	AIDelay        time.Duration `env:"AI_DELAY,default=800ms"`
	Rules          string        `env:"RULES,default=classic"`
	// DBPath is where finished matches are archived; empty keeps no archive
	DBPath string `env:"DB_PATH"`
	LogDev bool   `env:"LOG_DEV,default=false"`
}

// Load decodes the environment and validates the result
func Load() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.AIDelay < 0 {
		return fmt.Errorf("%w: negative AI delay", ErrInvalidConfig)
	}
	if _, err := game.RulesByName(c.Rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Origins splits the comma separated origin list
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GameRules returns the configured rule set
func (c Config) GameRules() game.Rules {
	r, err := game.RulesByName(c.Rules)
	if err != nil {
		return game.ClassicRules()
	}
	return r
}

func (c Config) Logger() (*zap.Logger, error) {
	if c.LogDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
