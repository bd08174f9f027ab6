package testutil

import (
	"context"
	"time"

	"github.com/wishy-app/backend/config"
	"github.com/wishy-app/backend/internal/entity"
	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/pkg/authenticator"
	"github.com/wishy-app/backend/pkg/logger"
	"github.com/wishy-app/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret:    "secret",
			PasswordPepper: "pepper",
			OAuth2StateTTL: 10 * time.Minute,
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Frontend: config.FrontendConfigs{
			URL: "http://localhost:3000",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
