package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-planner-api/internal/metrics"
)

const testChannel = "planner:sync:test"

func newRedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRelay_FansOutAcrossProcesses(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// two hubs stand in for two server processes sharing one redis
	hubA := NewHub(zap.NewNop(), nil, nil)
	hubB := NewHub(zap.NewNop(), nil, nil)
	relayA := NewRedisRelay(newRedisClient(t, mr), testChannel, hubA, zap.NewNop(), nil)
	relayB := NewRedisRelay(newRedisClient(t, mr), testChannel, hubB, zap.NewNop(), nil)
	require.NoError(t, relayA.Subscribe(ctx))
	require.NoError(t, relayB.Subscribe(ctx))

	connA := dial(t, newHubServer(t, hubA), nil)
	connB := dial(t, newHubServer(t, hubB), nil)
	waitForClients(t, hubA, 1)
	waitForClients(t, hubB, 1)

	relayA.NotifyChange(ctx)

	assert.Equal(t, EventTypeSync, readEvent(t, connA).Type, "publisher's own subscribers hear it through the channel")
	assert.Equal(t, EventTypeSync, readEvent(t, connB).Type)
}

func TestRedisRelay_FallsBackToLocalHub(t *testing.T) {
	mr := miniredis.RunT(t)
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())

	hub := NewHub(zap.NewNop(), m, nil)
	relay := NewRedisRelay(newRedisClient(t, mr), testChannel, hub, zap.NewNop(), m)
	conn := dial(t, newHubServer(t, hub), nil)
	waitForClients(t, hub, 1)

	mr.Close()
	relay.NotifyChange(context.Background())

	assert.Equal(t, EventTypeSync, readEvent(t, conn).Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues(metrics.NotifyFallback)))
}

func TestRedisRelay_IgnoresForeignMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop(), nil, nil)
	client := newRedisClient(t, mr)
	relay := NewRedisRelay(client, testChannel, hub, zap.NewNop(), nil)
	require.NoError(t, relay.Subscribe(ctx))

	conn := dial(t, newHubServer(t, hub), nil)
	waitForClients(t, hub, 1)

	require.NoError(t, client.Publish(ctx, testChannel, "not json").Err())
	require.NoError(t, client.Publish(ctx, testChannel, `{"type":"sync","timestamp":7}`).Err())

	ev := readEvent(t, conn)
	assert.Equal(t, int64(7), ev.Timestamp, "the malformed message was skipped")
}

func TestRedisRelay_SubscribeFailsWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := newRedisClient(t, mr)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	relay := NewRedisRelay(client, testChannel, NewHub(zap.NewNop(), nil, nil), zap.NewNop(), nil)
	assert.Error(t, relay.Subscribe(ctx))
}

func TestRedisRelay_UnsubscribedProcessStillNotifiesLocalPeers(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())

	// this process never subscribed; the other one did
	localHub := NewHub(zap.NewNop(), m, nil)
	local := NewRedisRelay(newRedisClient(t, mr), testChannel, localHub, zap.NewNop(), m)
	remoteHub := NewHub(zap.NewNop(), nil, nil)
	remote := NewRedisRelay(newRedisClient(t, mr), testChannel, remoteHub, zap.NewNop(), nil)
	require.NoError(t, remote.Subscribe(ctx))
	assert.False(t, local.Subscribed())

	localConn := dial(t, newHubServer(t, localHub), nil)
	remoteConn := dial(t, newHubServer(t, remoteHub), nil)
	waitForClients(t, localHub, 1)
	waitForClients(t, remoteHub, 1)

	local.NotifyChange(ctx)

	assert.Equal(t, EventTypeSync, readEvent(t, localConn).Type)
	assert.Equal(t, EventTypeSync, readEvent(t, remoteConn).Type, "the publish still reaches other processes")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues(metrics.NotifyFallback)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues(metrics.NotifyRelay)))
}

func TestRedisRelay_SubscriptionEndsWithContext(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(zap.NewNop(), nil, nil)
	relay := NewRedisRelay(newRedisClient(t, mr), testChannel, hub, zap.NewNop(), nil)
	require.NoError(t, relay.Subscribe(ctx))
	assert.True(t, relay.Subscribed())

	cancel()
	require.Eventually(t, func() bool { return !relay.Subscribed() }, 2*time.Second, 5*time.Millisecond)

	conn := dial(t, newHubServer(t, hub), nil)
	waitForClients(t, hub, 1)

	relay.NotifyChange(context.Background())
	assert.Equal(t, EventTypeSync, readEvent(t, conn).Type)
}
