package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Redis     RedisConfigs    `toml:"redis"`
	Frontend  FrontendConfigs `toml:"frontend"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host        string   `toml:"host"`
	Port        string   `toml:"port"`
	AllowOrigin []string `toml:"allow_origin"`
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret    string        `toml:"token_secret"`
	PasswordPepper string        `toml:"password_pepper"`
	OAuth2StateTTL time.Duration `toml:"oauth2_state_ttl"`

	AccessToken TokenConfigs `toml:"access_token"`

	Google   OAuth2Configs `toml:"google"`
	GitHub   OAuth2Configs `toml:"github"`
	Facebook OAuth2Configs `toml:"facebook"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type OAuth2Configs struct {
	Name         string `toml:"name"`
	Issuer       string `toml:"issuer"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// IsConfigured reports whether the provider can be registered at startup.
func (c *OAuth2Configs) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type FrontendConfigs struct {
	URL string `toml:"url"`
}
