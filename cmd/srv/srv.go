package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/wishy-app/backend/config"
	"github.com/wishy-app/backend/internal/domain"
	"github.com/wishy-app/backend/internal/repository"
	"github.com/wishy-app/backend/pkg/authenticator"
	"github.com/wishy-app/backend/pkg/logger"
	"github.com/wishy-app/backend/pkg/router"
	"github.com/wishy-app/backend/pkg/xcontext"
	"github.com/wishy-app/backend/pkg/xredis"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo         repository.UserRepository
	authIdentityRepo repository.AuthIdentityRepository
	oauthStateRepo   repository.OAuthStateRepository

	oauth2Services []authenticator.IOAuth2Service

	authDomain domain.AuthDomain
	userDomain domain.UserDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "wishy"),
			Password: getEnv("MYSQL_PASSWORD", "wishy"),
			Database: getEnv("MYSQL_DATABASE", "wishy"),
		},
		ApiServer: config.ServerConfigs{
			Host:        getEnv("HOST", ""),
			Port:        getEnv("PORT", "8080"),
			AllowOrigin: splitEnv("CORS_ORIGINS"),
		},
		Auth: config.AuthConfigs{
			TokenSecret:    getEnv("TOKEN_SECRET", "token-secret"),
			PasswordPepper: getEnv("PASSWORD_PEPPER", "password-pepper"),
			OAuth2StateTTL: getEnvDuration("OAUTH2_STATE_TTL", 10*time.Minute),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvDuration("ACCESS_TOKEN_DURATION", 30*time.Minute),
			},
			Google: config.OAuth2Configs{
				Name:         "google",
				Issuer:       getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
			},
			GitHub: config.OAuth2Configs{
				Name:         "github",
				ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
				ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("GITHUB_REDIRECT_URI", ""),
			},
			Facebook: config.OAuth2Configs{
				Name:         "facebook",
				ClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
				ClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("FACEBOOK_REDIRECT_URI", ""),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Frontend: config.FrontendConfigs{
			URL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
	}

	// A TOML file overrides the environment when provided.
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, s.configs); err != nil {
			panic(err)
		}
	}

	s.ctx = xcontext.WithConfigs(context.Background(), *s.configs)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.authIdentityRepo = repository.NewAuthIdentityRepository()
	s.oauthStateRepo = s.newOAuthStateRepo()
}

// newOAuthStateRepo prefers redis so states survive restarts and are shared
// between instances; without a redis address it falls back to process memory.
func (s *srv) newOAuthStateRepo() repository.OAuthStateRepository {
	ttl := s.configs.Auth.OAuth2StateTTL
	if s.configs.Redis.Addr == "" {
		s.logger.Warnf("No redis address, oauth states are kept in memory")
		return repository.NewInMemoryOAuthStateRepository(ttl)
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	return repository.NewRedisOAuthStateRepository(redisClient, ttl)
}

func (s *srv) loadOAuth2Services() {
	providers := []config.OAuth2Configs{
		s.configs.Auth.Google,
		s.configs.Auth.GitHub,
		s.configs.Auth.Facebook,
	}

	for _, providerCfg := range providers {
		if !providerCfg.IsConfigured() {
			s.logger.Warnf("Provider %s is not configured, skipped", providerCfg.Name)
			continue
		}

		service, err := s.newOAuth2Service(providerCfg)
		if err != nil {
			panic(err)
		}

		s.oauth2Services = append(s.oauth2Services, service)
	}
}

func (s *srv) newOAuth2Service(cfg config.OAuth2Configs) (authenticator.IOAuth2Service, error) {
	switch cfg.Name {
	case "google":
		return authenticator.NewGoogleService(s.ctx, cfg)
	case "github":
		return authenticator.NewGitHubService(cfg)
	case "facebook":
		return authenticator.NewFacebookService(cfg)
	default:
		return nil, nil
	}
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(
		s.userRepo, s.authIdentityRepo, s.oauthStateRepo, s.oauth2Services)
	s.userDomain = domain.NewUserDomain(s.userRepo)
}

func splitEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
