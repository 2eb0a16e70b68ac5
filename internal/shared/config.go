package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
	Auth       AuthConfig       `toml:"auth"`
	Navigation NavigationConfig `toml:"navigation"`
	Guard      GuardConfig      `toml:"guard"`
	I18n       I18nConfig       `toml:"i18n"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig contains session token and sign-in settings.
type AuthConfig struct {
	JWTSecret       string      `toml:"jwt_secret"`
	TokenTTLMinutes int         `toml:"token_ttl_minutes"`
	LoginRate       float64     `toml:"login_rate"`
	LoginBurst      int         `toml:"login_burst"`
	OAuth           OAuthConfig `toml:"oauth"`
}

// TokenTTL returns the session token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// OAuthConfig contains the identity provider settings used for OAuth sign-in.
type OAuthConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	RedirectURI  string   `toml:"redirect_uri"`
	UserInfoURL  string   `toml:"userinfo_url"`
	Scopes       []string `toml:"scopes"`
}

// NavigationConfig contains the route-change delays used by the navigation coordinator.
type NavigationConfig struct {
	PanelDelayMS int `toml:"panel_delay_ms"`
	PlainDelayMS int `toml:"plain_delay_ms"`
}

// PanelDelay is the delay before pushing a route when the side panel must close first.
func (n NavigationConfig) PanelDelay() time.Duration {
	return time.Duration(n.PanelDelayMS) * time.Millisecond
}

// PlainDelay is the delay before pushing a route when no panel is open.
func (n NavigationConfig) PlainDelay() time.Duration {
	return time.Duration(n.PlainDelayMS) * time.Millisecond
}

// GuardConfig contains route guard policy switches.
type GuardConfig struct {
	// FailClosed redirects signed-in viewers to sign-in when their profile fetch errored,
	// instead of treating the missing profile as still loading.
	FailClosed bool `toml:"fail_closed"`
}

// I18nConfig contains localization settings.
type I18nConfig struct {
	Language string `toml:"language"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
