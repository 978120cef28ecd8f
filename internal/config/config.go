package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port     string `yaml:"port"`
	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	Secret   string `yaml:"secret"`

	// SessionMaxAge is the session lifetime in seconds.
	SessionMaxAge int `yaml:"session_max_age"`
	// MemberDelete lets any logged-in user delete posts, not only admins.
	MemberDelete bool `yaml:"member_delete"`
}

func Default() *Config {
	return &Config{
		Port:          "8080",
		DBDriver:      "sqlite3",
		DBDSN:         "blog.db",
		SessionMaxAge: 86400 * 30,
	}
}

// Load reads filename over the defaults. A missing file is not an error.
// Values from the environment (and a .env file, if present) win over both.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing %s failed", filename)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "reading %s failed", filename)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.DBDSN = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Secret = v
	}
	if v := os.Getenv("MEMBER_DELETE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "MEMBER_DELETE=%q is not a boolean", v)
		}
		c.MemberDelete = b
	}
	return nil
}
