package message

import (
	"context"
	"sync"
	"time"

	"github.com/lllypuk/murmur/internal/domain/errs"
	"github.com/lllypuk/murmur/internal/domain/event"
	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// MockStore - мок хранилища сообщений для тестов
type MockStore struct {
	Messages  map[string]*messagedomain.Message
	Order     []string
	AppendErr error
	nextTS    int64
}

// NewMockStore создает новый мок хранилища
func NewMockStore() *MockStore {
	return &MockStore{
		Messages: make(map[string]*messagedomain.Message),
	}
}

// Append добавляет сообщение в мок
func (m *MockStore) Append(_ context.Context, sender, content string) (messagedomain.Projection, error) {
	if m.AppendErr != nil {
		return messagedomain.Projection{}, m.AppendErr
	}

	m.nextTS++
	msg, err := messagedomain.NewMessage(sender, content, m.nextTS)
	if err != nil {
		return messagedomain.Projection{}, err
	}

	m.Messages[msg.ID().String()] = msg
	m.Order = append(m.Order, msg.ID().String())
	return messagedomain.ToProjection(msg), nil
}

// Get находит сообщение по ID
func (m *MockStore) Get(_ context.Context, id string) (messagedomain.Projection, error) {
	msg, ok := m.Messages[id]
	if !ok {
		return messagedomain.Projection{}, errs.ErrNotFound
	}
	return messagedomain.ToProjection(msg), nil
}

// Detail возвращает сообщение с реакциями
func (m *MockStore) Detail(_ context.Context, id string) (messagedomain.Detail, error) {
	msg, ok := m.Messages[id]
	if !ok {
		return messagedomain.Detail{}, errs.ErrNotFound
	}
	return messagedomain.ToDetail(msg), nil
}

// ListSince возвращает сообщения с меткой >= since
func (m *MockStore) ListSince(_ context.Context, since int64) ([]messagedomain.Projection, error) {
	result := make([]messagedomain.Projection, 0)
	for _, id := range m.Order {
		msg := m.Messages[id]
		if msg.Timestamp() >= since {
			result = append(result, messagedomain.ToProjection(msg))
		}
	}
	return result, nil
}

// AddReaction добавляет реакцию к сообщению
func (m *MockStore) AddReaction(
	_ context.Context,
	id string,
	reactionType messagedomain.ReactionType,
) (messagedomain.Tally, error) {
	msg, ok := m.Messages[id]
	if !ok {
		return messagedomain.Tally{}, errs.ErrNotFound
	}
	msg.AddReaction(messagedomain.NewReaction(reactionType, time.Now()))
	return messagedomain.ToTally(msg), nil
}

// MockEventBus - мок шины событий для тестов
type MockEventBus struct {
	mu         sync.Mutex
	Published  []event.DomainEvent
	PublishErr error
}

// NewMockEventBus создает новый мок шины событий
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

// Publish сохраняет событие в списке опубликованных
func (m *MockEventBus) Publish(_ context.Context, evt event.DomainEvent) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, evt)
	return nil
}
