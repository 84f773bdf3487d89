// Package websocket provides the WebSocket push channel for real-time updates.
package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lllypuk/murmur/internal/infrastructure/metrics"
)

// Hub configuration constants.
const (
	defaultBroadcastBufferSize = 256
)

// Hub manages all WebSocket sessions. The service has a single shared
// room, so every delta is fanned out to every registered session.
type Hub struct {
	// sessions holds all connected sessions.
	sessions map[*Session]bool

	// register channel for new session connections.
	register chan *Session

	// unregister channel for session disconnections.
	unregister chan *Session

	// broadcast channel for envelopes to be fanned out.
	broadcast chan []byte

	// mu protects concurrent access to sessions.
	mu sync.RWMutex

	// logger for structured logging.
	logger *slog.Logger

	// chatMetrics is optional; nil disables instrumentation.
	chatMetrics *metrics.ChatMetrics

	// done signals when the hub should stop.
	done chan struct{}

	// stopped is closed once shutdown has completed.
	stopped chan struct{}

	// stopOnce guards closing the done channel.
	stopOnce sync.Once

	// running indicates if the hub is currently running.
	running bool

	// runningMu protects the running flag.
	runningMu sync.RWMutex
}

// HubOption configures the Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger for the hub.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithHubMetrics enables session and broadcast instrumentation.
func WithHubMetrics(m *metrics.ChatMetrics) HubOption {
	return func(h *Hub) {
		h.chatMetrics = m
	}
}

// NewHub creates a new Hub with the given options.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		sessions:   make(map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan []byte, defaultBroadcastBufferSize),
		logger:     slog.Default(),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run starts the hub's main event loop.
// It should be run as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.runningMu.Lock()
	if h.running {
		h.runningMu.Unlock()
		return
	}
	h.running = true
	h.runningMu.Unlock()

	h.logger.InfoContext(ctx, "websocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case <-h.done:
			h.shutdown()
			return

		case session := <-h.register:
			h.registerSession(session)

		case session := <-h.unregister:
			h.unregisterSession(session)

		case envelope := <-h.broadcast:
			h.handleBroadcast(envelope)
		}
	}
}

// Stop signals the hub to stop and waits until shutdown has completed.
func (h *Hub) Stop() {
	h.runningMu.RLock()
	running := h.running
	h.runningMu.RUnlock()

	if !running {
		return
	}

	h.stopOnce.Do(func() {
		close(h.done)
	})

	<-h.stopped
}

// shutdown performs graceful shutdown of all connections.
func (h *Hub) shutdown() {
	h.runningMu.Lock()
	h.running = false
	h.runningMu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	for session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[*Session]bool)

	if h.chatMetrics != nil {
		h.chatMetrics.SessionsConnected.Set(0)
	}

	close(h.stopped)
	h.logger.Info("websocket hub stopped")
}

// Register registers a new session with the hub.
func (h *Hub) Register(session *Session) {
	h.register <- session
}

// Unregister unregisters a session from the hub.
func (h *Hub) Unregister(session *Session) {
	h.unregister <- session
}

// Broadcast queues an envelope for fan-out to every registered session.
func (h *Hub) Broadcast(envelope []byte) {
	select {
	case h.broadcast <- envelope:
	default:
		h.logger.Warn("hub broadcast buffer full, dropping envelope")
	}
}

// registerSession adds a session to the hub.
func (h *Hub) registerSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[session] = true

	if h.chatMetrics != nil {
		h.chatMetrics.SessionsConnected.Set(float64(len(h.sessions)))
	}

	h.logger.Debug("session registered",
		slog.String("session_id", session.ID()),
		slog.Int("total_sessions", len(h.sessions)),
	)
}

// unregisterSession removes a session from the hub and closes it.
func (h *Hub) unregisterSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[session]; !ok {
		return
	}

	delete(h.sessions, session)
	session.Close()

	if h.chatMetrics != nil {
		h.chatMetrics.SessionsConnected.Set(float64(len(h.sessions)))
	}

	h.logger.Debug("session unregistered",
		slog.String("session_id", session.ID()),
		slog.Int("total_sessions", len(h.sessions)),
	)
}

// handleBroadcast fans an envelope out to every session. A session that
// cannot take the envelope, because its buffer is full or its write pump
// already closed it, is evicted so it never blocks delivery to others.
func (h *Hub) handleBroadcast(envelope []byte) {
	h.mu.RLock()
	var stale []*Session
	for session := range h.sessions {
		if !session.TrySend(envelope) {
			stale = append(stale, session)
		}
	}
	h.mu.RUnlock()

	if h.chatMetrics != nil {
		h.chatMetrics.BroadcastsTotal.Inc()
	}

	for _, session := range stale {
		h.logger.Warn("session not accepting envelopes, evicting",
			slog.String("session_id", session.ID()),
		)
		h.unregisterSession(session)
	}
}

// SessionCount returns the total number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// IsRunning returns whether the hub is currently running.
func (h *Hub) IsRunning() bool {
	h.runningMu.RLock()
	defer h.runningMu.RUnlock()
	return h.running
}
