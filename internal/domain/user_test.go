package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/internal/repository"
	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/testutil"
	"github.com/wishy-app/backend/pkg/xcontext"
)

func TestUserDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	authDomain := newTestAuthDomain(t)
	registerResp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "Sup3r-secret",
		ConfirmPassword: "Sup3r-secret",
	})
	require.NoError(t, err)

	userDomain := NewUserDomain(userRepo)
	resp, err := userDomain.GetMe(
		xcontext.WithRequestUserID(ctx, registerResp.User.ID), &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "alice@example.com", resp.User.Email)
}

func TestUserDomain_GetMeWithoutUser(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := NewUserDomain(repository.NewUserRepository())

	_, err := userDomain.GetMe(ctx, &model.GetMeRequest{})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}
