package middleware

import (
	"context"
	"strings"

	"github.com/wishy-app/backend/internal/repository"
	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/router"
	"github.com/wishy-app/backend/pkg/xcontext"
)

// Authenticate resolves the bearer token to an active user and records the
// user id in the context.
func Authenticate(userRepo repository.UserRepository) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := bearerToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Missing access token")
		}

		claims, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify the access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		if claims.ID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		user, err := userRepo.GetByID(ctx, claims.ID)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot get the token user: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		if !user.IsActive {
			return nil, errorx.New(errorx.PermissionDenied, "Account is deactivated")
		}

		return xcontext.WithRequestUserID(ctx, user.ID), nil
	}
}

func bearerToken(ctx context.Context) string {
	r := xcontext.HTTPRequest(ctx)
	if r == nil {
		return ""
	}

	authorization := r.Header.Get("Authorization")
	if !strings.HasPrefix(authorization, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(authorization, "Bearer ")
}
