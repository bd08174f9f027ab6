package xcontext

import (
	"context"
	"net/http"

	"github.com/wishy-app/backend/config"
	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/pkg/authenticator"
	"github.com/wishy-app/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	txKey          struct{}
	tokenEngineKey struct{}
	requestKey     struct{}
	userIDKey      struct{}
)

func WithConfigs(ctx context.Context, configs config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, configs)
}

func Configs(ctx context.Context) config.Configs {
	if configs, ok := ctx.Value(configsKey{}).(config.Configs); ok {
		return configs
	}
	return config.Configs{}
}

func WithLogger(ctx context.Context, lg logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, lg)
}

func Logger(ctx context.Context) logger.Logger {
	if lg, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return lg
	}
	return logger.NewLogger(logger.INFO)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// DB returns the request transaction if one is open, otherwise the shared
// connection.
func DB(ctx context.Context) *gorm.DB {
	if tx := txOf(ctx); tx != nil && !tx.done {
		return tx.tx
	}

	if db, ok := ctx.Value(dbKey{}).(*gorm.DB); ok {
		return db
	}
	return nil
}

// WithDBTransaction begins a transaction which DB() returns until it is
// committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction. A deferred
// WithRollbackDBTransaction on the same context becomes a no-op.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if tx := txOf(ctx); tx != nil && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}
	return ctx
}

func WithRollbackDBTransaction(ctx context.Context) {
	if tx := txOf(ctx); tx != nil && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}
}

func txOf(ctx context.Context) *dbTransaction {
	if tx, ok := ctx.Value(txKey{}).(*dbTransaction); ok {
		return tx
	}
	return nil
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, _ := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	return engine
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(requestKey{}).(*http.Request); ok {
		return r
	}
	return nil
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}
