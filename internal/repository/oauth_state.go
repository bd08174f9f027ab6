package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/redis/go-redis/v9"
	"github.com/wishy-app/backend/pkg/xredis"
)

// ErrStateNotFound is returned by Take when the state was never put, already
// consumed, or expired.
var ErrStateNotFound = errors.New("state not found")

// OAuthState is the per-authorization secret material bound to a state token
// between the start redirect and the provider callback.
type OAuthState struct {
	Provider     string `json:"provider"`
	CodeVerifier string `json:"code_verifier"`
	Nonce        string `json:"nonce"`
}

// OAuthStateRepository stores states consumable exactly once. Take removes
// the state atomically, a second Take of the same token always fails.
type OAuthStateRepository interface {
	Put(ctx context.Context, state string, value OAuthState) error
	Take(ctx context.Context, state string) (*OAuthState, error)
}

const stateKeyPrefix = "oauth2_state:"

type stateEntry struct {
	value     OAuthState
	expiredAt time.Time
}

type inMemoryOAuthStateRepository struct {
	states *xsync.MapOf[string, stateEntry]
	ttl    time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func NewInMemoryOAuthStateRepository(ttl time.Duration) *inMemoryOAuthStateRepository {
	r := &inMemoryOAuthStateRepository{
		states: xsync.NewMapOf[stateEntry](),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}

	go r.sweep()
	return r
}

// Stop terminates the background sweeper. Pending states remain takeable
// until their expiry.
func (r *inMemoryOAuthStateRepository) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *inMemoryOAuthStateRepository) Put(ctx context.Context, state string, value OAuthState) error {
	r.states.Store(state, stateEntry{value: value, expiredAt: time.Now().Add(r.ttl)})
	return nil
}

func (r *inMemoryOAuthStateRepository) Take(ctx context.Context, state string) (*OAuthState, error) {
	entry, ok := r.states.LoadAndDelete(state)
	if !ok || time.Now().After(entry.expiredAt) {
		return nil, ErrStateNotFound
	}

	return &entry.value, nil
}

func (r *inMemoryOAuthStateRepository) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.states.Range(func(state string, entry stateEntry) bool {
				if now.After(entry.expiredAt) {
					r.states.Delete(state)
				}
				return true
			})
		}
	}
}

type redisOAuthStateRepository struct {
	redisClient xredis.Client
	ttl         time.Duration
}

func NewRedisOAuthStateRepository(redisClient xredis.Client, ttl time.Duration) *redisOAuthStateRepository {
	return &redisOAuthStateRepository{redisClient: redisClient, ttl: ttl}
}

func (r *redisOAuthStateRepository) Put(ctx context.Context, state string, value OAuthState) error {
	return r.redisClient.SetObj(ctx, stateKeyPrefix+state, value, r.ttl)
}

func (r *redisOAuthStateRepository) Take(ctx context.Context, state string) (*OAuthState, error) {
	var value OAuthState
	err := r.redisClient.GetDelObj(ctx, stateKeyPrefix+state, &value)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}

		return nil, err
	}

	return &value, nil
}
