package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestIncrWithTTLArmsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	count, err := client.IncrWithTTL(ctx, client.CounterKey("alerts"), time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Len(t, mock.expireCalls, 1)

	count, err = client.IncrWithTTL(ctx, client.CounterKey("alerts"), time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.Len(t, mock.expireCalls, 1, "expire should not be set again")
}

func TestSetNXAndReleaseIfOwner(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}
	key := client.LockKey("inventory-alerts")

	ok, err := client.SetNX(ctx, key, "worker-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetNX(ctx, key, "worker-b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok, "second holder must not acquire")

	released, err := client.ReleaseIfOwner(ctx, key, "worker-b")
	require.NoError(t, err)
	require.False(t, released, "non-owner must not release")

	released, err = client.ReleaseIfOwner(ctx, key, "worker-a")
	require.NoError(t, err)
	require.True(t, released)

	_, err = client.Get(ctx, key)
	require.True(t, IsMiss(err))

	released, err = client.ReleaseIfOwner(ctx, key, "worker-a")
	require.NoError(t, err)
	require.False(t, released)
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	require.Equal(t, "bb:idempotency:POST /api/v1/transactions/donations:abc", client.IdempotencyKey("POST /api/v1/transactions/donations", "abc"))
	require.Equal(t, "bb:lock:cron", client.LockKey("cron"))
	require.Equal(t, "bb:counter:hits", client.CounterKey("hits"))
	require.Equal(t, "bb:idempotency:scope", client.IdempotencyKey("scope", " "), "empty parts are skipped")
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	require.Error(t, client.Ping(context.Background()))
	_, err := client.Get(context.Background(), "k")
	require.Error(t, err)
	require.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", opts.Addr)
	require.Equal(t, 7, opts.PoolSize)
	require.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2"})
	require.NoError(t, err)
	require.Equal(t, "localhost:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
