package kvstore

import (
	"context"
	"os/exec"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisClient(t *testing.T) *goredis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("docker not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "container run")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	addr, err := c.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisStore(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()

	t.Run("incr sets ttl once and counts across instances", func(t *testing.T) {
		a, b := New(client), New(client)

		count, ttl, err := a.Incr(ctx, "rl:global:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.InDelta(t, 60, ttl.Seconds(), 1)

		count, ttl, err = b.Incr(ctx, "rl:global:10.0.0.1", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("get after set and delete", func(t *testing.T) {
		s := New(client)
		require.NoError(t, s.Set(ctx, "csrf:abc", "1", time.Minute))

		v, err := s.Get(ctx, "csrf:abc")
		require.NoError(t, err)
		assert.Equal(t, "1", v)

		require.NoError(t, s.Delete(ctx, "csrf:abc"))
		_, err = s.Get(ctx, "csrf:abc")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sub-second ttl is rounded up to one second", func(t *testing.T) {
		_, ttl, err := New(client).Incr(ctx, "rl:tiny", 10*time.Millisecond)
		require.NoError(t, err)
		assert.LessOrEqual(t, ttl, time.Second)
		assert.GreaterOrEqual(t, ttl, time.Duration(0))
	})
}

func TestRedisStoreReportsConnectionErrors(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	_, _, err := NewRedisStore(client).Incr(context.Background(), "k", time.Second)
	assert.Error(t, err)
	_, err = NewRedisStore(client).Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
