package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messageapp "github.com/lllypuk/murmur/internal/application/message"
	"github.com/lllypuk/murmur/internal/config"
)

func TestNewContainer(t *testing.T) {
	cfg := config.DefaultConfig()

	container, err := NewContainer(cfg, WithLogger(slog.Default()))
	require.NoError(t, err)

	assert.NotNil(t, container.Store)
	assert.NotNil(t, container.EventBus)
	assert.NotNil(t, container.MessageService)
	assert.NotNil(t, container.Hub)
	assert.NotNil(t, container.Broadcaster)
	assert.NotNil(t, container.MessageHandler)
	assert.NotNil(t, container.WebSocketHandler)
	assert.NotNil(t, container.Metrics)
	assert.NotNil(t, container.Registry)
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestNewContainer_RateLimitStore(t *testing.T) {
	t.Run("disabled leaves store nil", func(t *testing.T) {
		cfg := config.DefaultConfig()
		container, err := NewContainer(cfg)
		require.NoError(t, err)
		assert.Nil(t, container.RateLimitStore)
	})

	t.Run("enabled builds store", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.RateLimit.Enabled = true
		container, err := NewContainer(cfg)
		require.NoError(t, err)
		assert.NotNil(t, container.RateLimitStore)
	})
}

func TestContainer_Lifecycle(t *testing.T) {
	cfg := config.DefaultConfig()
	container, err := NewContainer(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.False(t, container.Ready(ctx))

	container.StartHub(ctx)
	require.NoError(t, container.StartBroadcaster(ctx))

	// Hub.Run starts asynchronously
	require.Eventually(t, func() bool {
		return container.Ready(ctx)
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, container.Close())
	assert.False(t, container.Ready(ctx))
}

func TestContainer_ServiceIsWired(t *testing.T) {
	cfg := config.DefaultConfig()
	container, err := NewContainer(cfg)
	require.NoError(t, err)

	// Posting through the service lands in the store
	p, err := container.MessageService.PostMessage(context.Background(),
		messageapp.PostMessageCommand{Sender: "alice", Content: "wired"})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Sender)
	assert.Equal(t, 1, container.Store.Len())
}
