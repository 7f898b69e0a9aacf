package hostella

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// TokenKey is the fixed key the admin token is stored under.
const TokenKey = "hostella_admin_token"

// TokenSource yields the bearer token. It is consulted on every request so that a logout
// or rotation elsewhere takes effect immediately.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenStore is a TokenSource that can also be written at sign-in and sign-out.
type TokenStore interface {
	TokenSource
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) ClearToken(ctx context.Context) error {
	return s.SetToken(ctx, "")
}

// RedisTokenStore keeps the token in Redis so every replica shares the session.
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

// NewRedisTokenStore creates a store under TokenKey.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: TokenKey}
}

func (s *RedisTokenStore) Token(ctx context.Context) (string, error) {
	tok, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return tok, err
}

func (s *RedisTokenStore) SetToken(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key, token, 0).Err()
}

func (s *RedisTokenStore) ClearToken(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

type tokenCtxKey struct{}

// WithToken returns a context carrying a per-request token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

// TokenFromContext returns the token set by WithToken.
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenCtxKey{}).(string)
	return tok
}

// ContextTokenSource reads the token placed on the request context.
type ContextTokenSource struct{}

func (ContextTokenSource) Token(ctx context.Context) (string, error) {
	return TokenFromContext(ctx), nil
}

// ChainTokenSource returns the first non-empty token.
type ChainTokenSource []TokenSource

func (c ChainTokenSource) Token(ctx context.Context) (string, error) {
	for _, src := range c {
		tok, err := src.Token(ctx)
		if err != nil {
			return "", err
		}
		if tok != "" {
			return tok, nil
		}
	}
	return "", nil
}
