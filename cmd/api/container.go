// Package main provides the API server entry point.
package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	messageapp "github.com/lllypuk/murmur/internal/application/message"
	"github.com/lllypuk/murmur/internal/config"
	httphandler "github.com/lllypuk/murmur/internal/handler/http"
	wshandler "github.com/lllypuk/murmur/internal/handler/websocket"
	"github.com/lllypuk/murmur/internal/infrastructure/eventbus"
	"github.com/lllypuk/murmur/internal/infrastructure/metrics"
	"github.com/lllypuk/murmur/internal/infrastructure/repository/memory"
	ws "github.com/lllypuk/murmur/internal/infrastructure/websocket"
	"github.com/lllypuk/murmur/internal/middleware"
)

// Container wiring errors.
var (
	ErrNilConfig     = errors.New("config must not be nil")
	ErrWiringInvalid = errors.New("container wiring is incomplete")
)

// Container holds all application dependencies.
// The message store is the single authoritative state: both transports
// and the event bus hang off it.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Registry *prometheus.Registry
	Metrics  *metrics.ChatMetrics

	Store    *memory.MessageStore
	EventBus *eventbus.MemoryEventBus

	MessageService *messageapp.Service

	Hub         *ws.Hub
	Broadcaster *ws.Broadcaster

	MessageHandler   *httphandler.MessageHandler
	WebSocketHandler *wshandler.Handler

	RateLimitStore *middleware.MemoryRateLimitStore
}

// ContainerOption configures the Container.
type ContainerOption func(*Container)

// WithLogger sets the logger for the container.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer builds the dependency container from configuration.
func NewContainer(cfg *config.Config, opts ...ContainerOption) (*Container, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	c := &Container{
		Config: cfg,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.setupMetrics()
	c.setupStore()
	c.setupEventBus()
	c.setupService()
	c.setupHub()
	c.setupHandlers()

	if err := c.validateWiring(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) setupMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Metrics = metrics.NewChatMetrics(c.Registry)
}

func (c *Container) setupStore() {
	c.Store = memory.NewMessageStore()
}

func (c *Container) setupEventBus() {
	c.EventBus = eventbus.NewMemoryEventBus(
		eventbus.WithLogger(c.Logger),
	)
}

func (c *Container) setupService() {
	c.MessageService = messageapp.NewService(
		messageapp.NewPostMessageUseCase(c.Store, c.EventBus),
		messageapp.NewListMessagesUseCase(c.Store),
		messageapp.NewGetReactionsUseCase(c.Store),
		messageapp.NewAddReactionUseCase(c.Store, c.EventBus),
		messageapp.WithRecorder(c.Metrics),
	)
}

func (c *Container) setupHub() {
	c.Hub = ws.NewHub(
		ws.WithHubLogger(c.Logger),
		ws.WithHubMetrics(c.Metrics),
	)
	c.Broadcaster = ws.NewBroadcaster(c.Hub, c.EventBus,
		ws.WithBroadcasterLogger(c.Logger),
	)
}

func (c *Container) setupHandlers() {
	c.MessageHandler = httphandler.NewMessageHandler(c.MessageService)

	wsCfg := c.Config.WebSocket
	c.WebSocketHandler = wshandler.NewHandler(
		c.Hub,
		wshandler.NewServiceAdapter(c.MessageService),
		wshandler.WithHandlerConfig(wshandler.HandlerConfig{
			ReadBufferSize:  wsCfg.ReadBufferSize,
			WriteBufferSize: wsCfg.WriteBufferSize,
			Logger:          c.Logger,
			SessionConfig: ws.SessionConfig{
				ReadBufferSize:  wsCfg.ReadBufferSize,
				WriteBufferSize: wsCfg.WriteBufferSize,
				PingInterval:    wsCfg.PingInterval,
				PongWait:        wsCfg.PongTimeout,
				WriteWait:       wsCfg.WriteTimeout,
				MaxMessageSize:  wsCfg.MaxMessageSize,
				SendBufferSize:  wsCfg.SendBufferSize,
			},
		}),
	)

	if c.Config.RateLimit.Enabled {
		c.RateLimitStore = middleware.NewMemoryRateLimitStore()
	}
}

// validateWiring verifies that every dependency was constructed.
func (c *Container) validateWiring() error {
	var errs []error

	if c.Store == nil {
		errs = append(errs, errors.New("message store is nil"))
	}
	if c.EventBus == nil {
		errs = append(errs, errors.New("event bus is nil"))
	}
	if c.MessageService == nil {
		errs = append(errs, errors.New("message service is nil"))
	}
	if c.Hub == nil {
		errs = append(errs, errors.New("websocket hub is nil"))
	}
	if c.Broadcaster == nil {
		errs = append(errs, errors.New("broadcaster is nil"))
	}
	if c.MessageHandler == nil {
		errs = append(errs, errors.New("message handler is nil"))
	}
	if c.WebSocketHandler == nil {
		errs = append(errs, errors.New("websocket handler is nil"))
	}

	if len(errs) > 0 {
		return errors.Join(ErrWiringInvalid, errors.Join(errs...))
	}

	return nil
}

// StartHub starts the WebSocket hub loop.
func (c *Container) StartHub(ctx context.Context) {
	go c.Hub.Run(ctx)
}

// StartBroadcaster subscribes the broadcaster to the event bus.
func (c *Container) StartBroadcaster(ctx context.Context) error {
	return c.Broadcaster.Start(ctx)
}

// Ready reports whether the service can serve traffic.
func (c *Container) Ready(_ context.Context) bool {
	return c.Hub.IsRunning() && c.Broadcaster.IsRunning()
}

// Close releases container resources.
func (c *Container) Close() error {
	if c.Hub != nil && c.Hub.IsRunning() {
		c.Hub.Stop()
	}
	return nil
}
