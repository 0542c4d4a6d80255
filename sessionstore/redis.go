// Package sessionstore persists the connected wallet session so a
// process restart can rehydrate it. The record is intentionally small:
// backend ID and address, nothing the signer would have to re-approve.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// sessionKey is the namespaced key the record lives under. Absence of
// the key means the process starts Disconnected.
const sessionKey = "walletcore:session:v1"

// Record is the persisted session state.
type Record struct {
	BackendID string `json:"backend_id"`
	Address   string `json:"address"`
}

// Store is the durable session record contract.
type Store interface {
	Save(ctx context.Context, rec Record) error
	// Load returns the record and whether one exists.
	Load(ctx context.Context) (Record, bool, error)
	Clear(ctx context.Context) error
}

// Redis keeps the session record in Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis instance at the given URL.
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.New("invalid redis url: " + err.Error())
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey, payload, 0).Err()
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context) (Record, bool, error) {
	payload, err := r.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Clear implements Store.
func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, sessionKey).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
