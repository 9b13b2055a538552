package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Minio    MinioConfig    `yaml:"minio"`
	Docparse DocparseConfig `yaml:"docparse"`
	Auth     AuthConfig     `yaml:"auth"`
	Store    StoreConfig    `yaml:"store"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Review   ReviewConfig   `yaml:"review"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port               int `yaml:"port"`
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

// DocparseConfig configures the external clause-extraction API.
type DocparseConfig struct {
	APIURL      string `yaml:"api_url"`
	APIToken    string `yaml:"api_token"`
	CallbackURL string `yaml:"callback_url"`
	Seed        string `yaml:"seed"`
	// ParseTimeoutMinutes marks LOIs stuck in parsing as failed after
	// this many minutes. Enforced by the cleanup cron job.
	ParseTimeoutMinutes int `yaml:"parse_timeout_minutes"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type StoreConfig struct {
	MaxLOIs int `yaml:"max_lois"` // 0 = unlimited
}

// SuggestConfig configures the AI clause-suggestion service.
type SuggestConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ReviewConfig tunes the clause review pipeline. ProhibitionPhrases
// overrides the built-in tenant-obligation phrase list when non-empty.
type ReviewConfig struct {
	ProhibitionPhrases []string `yaml:"prohibition_phrases"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerMinute == 0 {
		cfg.Server.RateLimitPerMinute = 100
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Store.MaxLOIs == 0 {
		cfg.Store.MaxLOIs = 100
	}
	if cfg.Docparse.ParseTimeoutMinutes == 0 {
		cfg.Docparse.ParseTimeoutMinutes = 15
	}
	if cfg.Suggest.Model == "" {
		cfg.Suggest.Model = "claude-sonnet-4-5-20250929"
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
