package router

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/wishy-app/backend/config"
	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/pkg/authenticator"
	"github.com/wishy-app/backend/pkg/logger"
	"github.com/wishy-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It returns the (possibly derived)
// context the handler will see, or an error that short-circuits the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, with the handler error if
// any.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	mux *http.ServeMux
	cfg config.Configs

	baseCtx func(context.Context) context.Context

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, lg logger.Logger) *Router {
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration)

	return &Router{
		mux: http.NewServeMux(),
		cfg: cfg,
		baseCtx: func(ctx context.Context) context.Context {
			ctx = xcontext.WithConfigs(ctx, cfg)
			ctx = xcontext.WithLogger(ctx, lg)
			ctx = xcontext.WithDB(ctx, db)
			ctx = xcontext.WithTokenEngine(ctx, tokenEngine)
			return ctx
		},
	}
}

// Branch shares the route table but owns independent middleware chains.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:     r.mux,
		cfg:     r.cfg,
		baseCtx: r.baseCtx,
	}
	branch.befores = append(branch.befores, r.befores...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	allowOrigin := r.cfg.ApiServer.AllowOrigin
	if len(allowOrigin) == 0 {
		allowOrigin = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowOrigin,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r.mux)
}
