package websocket_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
	ws "github.com/lllypuk/murmur/internal/infrastructure/websocket"
)

// fakeChatService записывает вызовы и возвращает заготовленные ответы.
type fakeChatService struct {
	postCalls     []string
	reactionCalls []string
	postErr       error
	reactionErr   error
	history       []messagedomain.Projection
}

func (f *fakeChatService) PostMessage(_ context.Context, sender, content string) (messagedomain.Projection, error) {
	f.postCalls = append(f.postCalls, sender+":"+content)
	if f.postErr != nil {
		return messagedomain.Projection{}, f.postErr
	}
	return messagedomain.Projection{ID: "m1", Sender: sender, Content: content, Timestamp: 1000}, nil
}

func (f *fakeChatService) AddReaction(_ context.Context, id, reactionType string) (messagedomain.Tally, error) {
	f.reactionCalls = append(f.reactionCalls, id+":"+reactionType)
	if f.reactionErr != nil {
		return messagedomain.Tally{}, f.reactionErr
	}
	return messagedomain.Tally{ID: messagedomain.Projection{ID: "m1"}.ID, Likes: 1}, nil
}

func (f *fakeChatService) ListSince(_ context.Context, since int64) ([]messagedomain.Projection, error) {
	result := make([]messagedomain.Projection, 0)
	for _, p := range f.history {
		if p.Timestamp >= since {
			result = append(result, p)
		}
	}
	return result, nil
}

// startSession wires a session with running pumps to a client connection.
func startSession(t *testing.T, service ws.ChatService) *websocket.Conn {
	t.Helper()

	hub := ws.NewHub()
	go hub.Run(t.Context())
	time.Sleep(10 * time.Millisecond)

	server, clientConn, err := createWebSocketPair(t)
	require.NoError(t, err)

	session := ws.NewSession(hub, server, service)
	hub.Register(session)
	time.Sleep(10 * time.Millisecond)

	go session.WritePump()
	go session.ReadPump()

	t.Cleanup(func() {
		_ = clientConn.Close()
	})

	return clientConn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(data, &envelope))
	return envelope
}

func TestSession_SyncEnvelope(t *testing.T) {
	service := &fakeChatService{
		history: []messagedomain.Projection{
			{ID: "m1", Sender: "alice", Content: "old", Timestamp: 1000},
			{ID: "m2", Sender: "bob", Content: "new", Timestamp: 2000},
		},
	}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"sync","since":2000}`)))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "history", envelope["type"])
	messages, ok := envelope["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "m2", first["id"])
}

func TestSession_SyncEnvelope_MalformedCursor(t *testing.T) {
	service := &fakeChatService{
		history: []messagedomain.Projection{
			{ID: "m1", Sender: "alice", Content: "old", Timestamp: 1000},
		},
	}
	conn := startSession(t, service)

	// Нечисловой курсор вырождается в 0: вся история
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"sync","since":"garbage"}`)))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "history", envelope["type"])
	messages, ok := envelope["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 1)
}

func TestSession_ChatEnvelope(t *testing.T) {
	service := &fakeChatService{}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"chat","sender":"alice","content":"hello"}`)))
	time.Sleep(50 * time.Millisecond)

	// Успех не подтверждается напрямую, только через broadcast
	require.Len(t, service.postCalls, 1)
	assert.Equal(t, "alice:hello", service.postCalls[0])
}

func TestSession_ChatEnvelope_ValidationError(t *testing.T) {
	service := &fakeChatService{postErr: errors.New("content is required")}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat","sender":"alice"}`)))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "error", envelope["type"])
	assert.Equal(t, "content is required", envelope["message"])

	// Сокет остается открытым: следующее сообщение обрабатывается
	service.postErr = nil
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"chat","sender":"alice","content":"retry"}`)))
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, service.postCalls, 2)
}

func TestSession_ReactionEnvelope(t *testing.T) {
	service := &fakeChatService{}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"reaction","id":"m1","reaction":"like"}`)))
	time.Sleep(50 * time.Millisecond)

	require.Len(t, service.reactionCalls, 1)
	assert.Equal(t, "m1:like", service.reactionCalls[0])
}

func TestSession_ReactionEnvelope_UnknownMessage(t *testing.T) {
	service := &fakeChatService{reactionErr: errors.New("Message not found")}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"reaction","id":"nope","reaction":"like"}`)))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "error", envelope["type"])
	assert.Equal(t, "Message not found", envelope["message"])
}

func TestSession_UnknownEnvelopeType(t *testing.T) {
	service := &fakeChatService{}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "error", envelope["type"])
	assert.Equal(t, "unknown message type: dance", envelope["message"])
}

func TestSession_MalformedJSON(t *testing.T) {
	service := &fakeChatService{}
	conn := startSession(t, service)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, "error", envelope["type"])
	assert.Equal(t, "invalid message format", envelope["message"])
}

func TestInboundEnvelope_SinceCursor(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int64
	}{
		{"number", `{"since":1500}`, 1500},
		{"numeric string", `{"since":"1500"}`, 1500},
		{"float", `{"since":1500.7}`, 1500},
		{"missing", `{}`, 0},
		{"garbage string", `{"since":"abc"}`, 0},
		{"negative", `{"since":-5}`, 0},
		{"object", `{"since":{"a":1}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var envelope ws.InboundEnvelope
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &envelope))
			assert.Equal(t, tt.expected, envelope.SinceCursor())
		})
	}
}

func TestSession_SendAfterClose(t *testing.T) {
	hub := ws.NewHub()

	server, clientConn, err := createWebSocketPair(t)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = clientConn.Close()
	})

	session := ws.NewSession(hub, server, &fakeChatService{})
	session.Close()

	// Отправка в закрытую сессию не паникует и не блокируется.
	assert.NotPanics(t, func() {
		session.Send([]byte(`{"type":"chat"}`))
	})
	assert.False(t, session.TrySend([]byte(`{"type":"chat"}`)))
}
