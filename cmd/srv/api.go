package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wishy-app/backend/internal/entity"
	"github.com/wishy-app/backend/internal/middleware"
	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.loadOAuth2Services()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port: %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Public auth API
	router.POST(s.router, "/auth/register", s.authDomain.Register)
	router.POST(s.router, "/users/login", s.authDomain.Login)

	for _, service := range s.oauth2Services {
		provider := service.Service()

		router.GET(s.router, fmt.Sprintf("/auth/oauth/%s/start", provider),
			func(ctx context.Context, req *model.OAuth2StartRequest) (*model.OAuth2StartResponse, error) {
				req.Provider = provider
				return s.authDomain.OAuth2Start(ctx, req)
			})

		router.GET(s.router, fmt.Sprintf("/auth/oauth/callback/%s", provider),
			func(ctx context.Context, req *model.OAuth2CallbackRequest) (*model.OAuth2CallbackResponse, error) {
				req.Provider = provider
				return s.authDomain.OAuth2Callback(ctx, req)
			})
	}

	// These following APIs need authentication with an access token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate(s.userRepo))
	{
		router.GET(authRouter, "/users/me", s.userDomain.GetMe)
	}
}

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	if err := entity.MigrateTable(s.db); err != nil {
		return err
	}

	s.logger.Infof("Migration completed")
	return nil
}
