// Package websocket provides HTTP handlers for WebSocket connections.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	messageapp "github.com/lllypuk/murmur/internal/application/message"
	"github.com/lllypuk/murmur/internal/domain/message"
	ws "github.com/lllypuk/murmur/internal/infrastructure/websocket"
)

// Handler configuration constants.
const (
	defaultHandlerReadBufferSize  = 1024
	defaultHandlerWriteBufferSize = 1024
)

// Handler handles WebSocket HTTP requests.
type Handler struct {
	hub           *ws.Hub
	service       ws.ChatService
	upgrader      websocket.Upgrader
	logger        *slog.Logger
	sessionConfig ws.SessionConfig
}

// HandlerConfig holds configuration for the WebSocket handler.
type HandlerConfig struct {
	// ReadBufferSize is the size of the read buffer for WebSocket connections.
	ReadBufferSize int

	// WriteBufferSize is the size of the write buffer for WebSocket connections.
	WriteBufferSize int

	// CheckOrigin is a function that returns true if the request origin is acceptable.
	// If nil, a default function allowing all origins is used.
	CheckOrigin func(r *http.Request) bool

	// Logger is the structured logger for the handler.
	Logger *slog.Logger

	// SessionConfig is the configuration for WebSocket sessions.
	SessionConfig ws.SessionConfig
}

// DefaultHandlerConfig returns a default configuration.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		ReadBufferSize:  defaultHandlerReadBufferSize,
		WriteBufferSize: defaultHandlerWriteBufferSize,
		CheckOrigin:     nil,
		Logger:          slog.Default(),
		SessionConfig:   ws.DefaultSessionConfig(),
	}
}

// HandlerOption configures the Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger for the handler.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithHandlerConfig sets the handler configuration.
func WithHandlerConfig(config HandlerConfig) HandlerOption {
	return func(h *Handler) {
		h.upgrader.ReadBufferSize = config.ReadBufferSize
		h.upgrader.WriteBufferSize = config.WriteBufferSize
		if config.CheckOrigin != nil {
			h.upgrader.CheckOrigin = config.CheckOrigin
		}
		if config.Logger != nil {
			h.logger = config.Logger
		}
		h.sessionConfig = config.SessionConfig
	}
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *ws.Hub, service ws.ChatService, opts ...HandlerOption) *Handler {
	h := &Handler{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  defaultHandlerReadBufferSize,
			WriteBufferSize: defaultHandlerWriteBufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				// The service has no authentication layer, any origin may connect
				return true
			},
		},
		logger:        slog.Default(),
		sessionConfig: ws.DefaultSessionConfig(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleWebSocket handles WebSocket upgrade requests.
// It upgrades the connection, sends a history snapshot and registers
// the session with the hub. The optional since query parameter bounds
// the snapshot the same way it bounds the polling endpoint.
func (h *Handler) HandleWebSocket(c echo.Context) error {
	since := parseSinceParam(c.QueryParam("since"))

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.String("remote_ip", c.RealIP()),
			slog.String("error", err.Error()),
		)
		return nil // Upgrade already sent an error response
	}

	session := ws.NewSession(
		h.hub,
		conn,
		h.service,
		ws.WithSessionConfig(h.sessionConfig),
		ws.WithSessionLogger(h.logger),
	)

	// Register before the snapshot so no broadcast is missed. Queued
	// deltas are only flushed once WritePump starts, so the snapshot
	// still reaches the socket first.
	h.hub.Register(session)

	h.writeSnapshot(c.Request().Context(), session, since)

	h.logger.Info("websocket connection established",
		slog.String("session_id", session.ID()),
		slog.String("remote_ip", c.RealIP()),
	)

	go session.WritePump()
	go session.ReadPump()

	return nil
}

// writeSnapshot sends the history envelope directly to the socket.
func (h *Handler) writeSnapshot(ctx context.Context, session *ws.Session, since int64) {
	messages, err := h.service.ListSince(ctx, since)
	if err != nil {
		h.logger.Error("failed to load history snapshot",
			slog.String("session_id", session.ID()),
			slog.String("error", err.Error()),
		)
		messages = []message.Projection{}
	}

	data, err := json.Marshal(ws.NewHistoryEnvelope(messages))
	if err != nil {
		h.logger.Error("failed to marshal history snapshot",
			slog.String("error", err.Error()),
		)
		return
	}

	if writeErr := session.WriteDirect(data); writeErr != nil {
		h.logger.Warn("failed to write history snapshot",
			slog.String("session_id", session.ID()),
			slog.String("error", writeErr.Error()),
		)
	}
}

// parseSinceParam parses the since query parameter.
// Malformed or negative cursors fall back to the full log.
func parseSinceParam(raw string) int64 {
	if raw == "" {
		return 0
	}
	since, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || since < 0 {
		return 0
	}
	return since
}

// RegisterRoutes registers the WebSocket handler with the Echo router.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleWebSocket)
}

// ServiceAdapter adapts the application message service to the
// session-facing ChatService interface.
type ServiceAdapter struct {
	service *messageapp.Service
}

// NewServiceAdapter creates a new ServiceAdapter.
func NewServiceAdapter(service *messageapp.Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

// PostMessage appends a message to the log.
func (a *ServiceAdapter) PostMessage(
	ctx context.Context,
	sender, content string,
) (message.Projection, error) {
	return a.service.PostMessage(ctx, messageapp.PostMessageCommand{
		Sender:  sender,
		Content: content,
	})
}

// AddReaction attaches a reaction to a message.
func (a *ServiceAdapter) AddReaction(
	ctx context.Context,
	messageID, reactionType string,
) (message.Tally, error) {
	return a.service.AddReaction(ctx, messageapp.AddReactionCommand{
		MessageID: messageID,
		Type:      reactionType,
	})
}

// ListSince returns all messages with timestamp at or after since.
func (a *ServiceAdapter) ListSince(
	ctx context.Context,
	since int64,
) ([]message.Projection, error) {
	return a.service.ListMessages(ctx, messageapp.ListMessagesQuery{Since: since})
}
