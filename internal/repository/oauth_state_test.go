package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wishy-app/backend/internal/repository"
)

func TestOAuthStateTakeOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryOAuthStateRepository(time.Minute)
	t.Cleanup(repo.Stop)

	err := repo.Put(ctx, "state-token", repository.OAuthState{
		Provider:     "google",
		CodeVerifier: "verifier",
		Nonce:        "nonce",
	})
	require.NoError(t, err)

	value, err := repo.Take(ctx, "state-token")
	require.NoError(t, err)
	require.Equal(t, "google", value.Provider)
	require.Equal(t, "verifier", value.CodeVerifier)
	require.Equal(t, "nonce", value.Nonce)

	// The state is consumed, a replay must fail.
	_, err = repo.Take(ctx, "state-token")
	require.ErrorIs(t, err, repository.ErrStateNotFound)
}

func TestOAuthStateUnknown(t *testing.T) {
	repo := repository.NewInMemoryOAuthStateRepository(time.Minute)
	t.Cleanup(repo.Stop)

	_, err := repo.Take(context.Background(), "never-put")
	require.ErrorIs(t, err, repository.ErrStateNotFound)
}

func TestOAuthStateStop(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryOAuthStateRepository(time.Minute)

	require.NoError(t, repo.Put(ctx, "state-token", repository.OAuthState{Provider: "google"}))

	// Stopping the sweeper is idempotent and keeps pending states takeable.
	repo.Stop()
	repo.Stop()

	value, err := repo.Take(ctx, "state-token")
	require.NoError(t, err)
	require.Equal(t, "google", value.Provider)
}

func TestOAuthStateExpired(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryOAuthStateRepository(-time.Second)
	t.Cleanup(repo.Stop)

	err := repo.Put(ctx, "state-token", repository.OAuthState{Provider: "google"})
	require.NoError(t, err)

	_, err = repo.Take(ctx, "state-token")
	require.ErrorIs(t, err, repository.ErrStateNotFound)
}
