package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds everything the service reads from the environment (or an
// optional YAML file). It is loaded once in main and passed by reference to
// the components that need it.
type Settings struct {
	Server struct {
		Address string `mapstructure:"address"`
		Port    string `mapstructure:"port"`
		AppName string `mapstructure:"app_name"`
		Env     string `mapstructure:"env"`
	} `mapstructure:"server"`

	Session struct {
		SecretKey  string `mapstructure:"secret_key"`
		CookieName string `mapstructure:"cookie_name"`
		TTLMinutes int    `mapstructure:"ttl_minutes"`
	} `mapstructure:"session"`

	OAuth struct {
		ClientID     string   `mapstructure:"client_id"`
		ClientSecret string   `mapstructure:"client_secret"`
		TenantID     string   `mapstructure:"tenant_id"`
		Authority    string   `mapstructure:"authority"`
		Issuer       string   `mapstructure:"issuer"`
		RedirectURI  string   `mapstructure:"redirect_uri"`
		Scopes       []string `mapstructure:"scopes"`
	} `mapstructure:"oauth"`

	Graph struct {
		BaseURL string   `mapstructure:"base_url"`
		Scopes  []string `mapstructure:"scopes"`
	} `mapstructure:"graph"`

	Directory struct {
		Source       string `mapstructure:"source"` // "sql" | "graph"
		CompanyID    string `mapstructure:"company_id"`
		CompanyName  string `mapstructure:"company_name"`
		ActiveStatus string `mapstructure:"active_status"`
	} `mapstructure:"directory"`

	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" | "mysql"
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logs"`
}

// Load reads settings from environment variables (CONTACTS_ prefix, dots
// replaced by underscores) and, when present, a YAML config file.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("CONTACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.app_name", "Contacts Server")
	v.SetDefault("server.env", "DEV")

	v.SetDefault("session.secret_key", "dev-secret-key-change-me")
	v.SetDefault("session.cookie_name", "contacts_session")
	v.SetDefault("session.ttl_minutes", 480)

	v.SetDefault("oauth.redirect_uri", "http://localhost:8080/auth/callback")
	v.SetDefault("oauth.scopes", []string{"openid", "profile", "email", "offline_access", "User.Read"})

	v.SetDefault("graph.base_url", "https://graph.microsoft.com/v1.0")
	v.SetDefault("graph.scopes", []string{"https://graph.microsoft.com/.default"})

	v.SetDefault("directory.source", "sql")
	v.SetDefault("directory.company_id", "company")
	v.SetDefault("directory.company_name", "Company")
	v.SetDefault("directory.active_status", "active")

	v.SetDefault("logs.level", "info")

	if cfgFile := os.Getenv("CONTACTS_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/contacts-server")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	if strings.TrimSpace(s.Server.Port) == "" {
		return errors.New("server.port must not be empty")
	}
	switch s.Directory.Source {
	case "sql", "graph":
	default:
		return fmt.Errorf("directory.source must be \"sql\" or \"graph\", got %q", s.Directory.Source)
	}
	return nil
}

// ListenAddr combines address and port for http.Server.
func (s *Settings) ListenAddr() string {
	return s.Server.Address + ":" + s.Server.Port
}

// ResolvedAuthority returns the OAuth authority base URL: the explicitly
// configured one, or the Microsoft login endpoint derived from the tenant id.
func (s *Settings) ResolvedAuthority() string {
	if a := strings.TrimSpace(s.OAuth.Authority); a != "" {
		return strings.TrimRight(a, "/")
	}
	if s.OAuth.TenantID != "" {
		return "https://login.microsoftonline.com/" + s.OAuth.TenantID
	}
	return ""
}
