// Package redisstore implements a Redis-backed credential store, for
// deployments where several workers share one session identity. The key
// surface mirrors the file store: "auth_token" holds the bare token and
// "auth-storage" the serialized rehydration snapshot.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

const (
	tokenKey    = "auth_token"
	snapshotKey = "auth-storage"
)

// Store persists the credential under a key prefix in Redis. Save is atomic
// via MULTI/EXEC: both entries commit together or not at all.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps client. prefix namespaces the two keys (e.g. "sessionctl:").
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

type envelope struct {
	State struct {
		User            *domain.User `json:"user"`
		Token           string       `json:"token"`
		IsAuthenticated bool         `json:"isAuthenticated"`
	} `json:"state"`
	Version int `json:"version"`
}

func (s *Store) Save(ctx context.Context, token string, user *domain.User) error {
	var env envelope
	env.State.User = user
	env.State.Token = token
	env.State.IsAuthenticated = token != ""

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+tokenKey, token, 0)
	pipe.Set(ctx, s.prefix+snapshotKey, data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*domain.Credential, error) {
	token, err := s.client.Get(ctx, s.prefix+tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	cred := &domain.Credential{Token: token}

	raw, err := s.client.Get(ctx, s.prefix+snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cred, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		cred.User = env.State.User
	}
	return cred, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.prefix+tokenKey, s.prefix+snapshotKey).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
