package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lllypuk/murmur/internal/domain/errs"
	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
	"github.com/lllypuk/murmur/internal/domain/uuid"
)

// Option настраивает MessageStore при создании.
type Option func(*MessageStore)

// WithClock подменяет источник времени (используется в тестах).
func WithClock(clock func() time.Time) Option {
	return func(s *MessageStore) {
		s.clock = clock
	}
}

// MessageStore хранит журнал сообщений в памяти.
// Журнал append-only: сообщения никогда не удаляются и не переставляются,
// временные метки монотонно неубывающие в порядке вставки.
type MessageStore struct {
	mu     sync.RWMutex
	log    []*messagedomain.Message
	byID   map[uuid.UUID]*messagedomain.Message
	lastTS int64
	clock  func() time.Time
}

// NewMessageStore создает пустой MessageStore.
func NewMessageStore(opts ...Option) *MessageStore {
	s := &MessageStore{
		byID:  make(map[uuid.UUID]*messagedomain.Message),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append создает новое сообщение и добавляет его в конец журнала.
// Временная метка назначается под write-блокировкой, поэтому порядок
// меток совпадает с порядком вставки даже при конкурентных вызовах.
func (s *MessageStore) Append(_ context.Context, sender, content string) (messagedomain.Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.clock().UnixMilli()
	if ts < s.lastTS {
		ts = s.lastTS
	}

	msg, err := messagedomain.NewMessage(sender, content, ts)
	if err != nil {
		return messagedomain.Projection{}, err
	}

	s.lastTS = ts
	s.log = append(s.log, msg)
	s.byID[msg.ID()] = msg

	return messagedomain.ToProjection(msg), nil
}

// Get возвращает проекцию сообщения по ID.
func (s *MessageStore) Get(_ context.Context, id string) (messagedomain.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.byID[uuid.UUID(id)]
	if !ok {
		return messagedomain.Projection{}, errs.ErrNotFound
	}
	return messagedomain.ToProjection(msg), nil
}

// Detail возвращает сообщение вместе с полным списком его реакций.
func (s *MessageStore) Detail(_ context.Context, id string) (messagedomain.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.byID[uuid.UUID(id)]
	if !ok {
		return messagedomain.Detail{}, errs.ErrNotFound
	}
	return messagedomain.ToDetail(msg), nil
}

// ListSince возвращает проекции всех сообщений с меткой >= since
// в порядке вставки. Пустой результат всегда не-nil срез.
func (s *MessageStore) ListSince(_ context.Context, since int64) ([]messagedomain.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]messagedomain.Projection, 0)
	for _, msg := range s.log {
		if msg.Timestamp() >= since {
			result = append(result, messagedomain.ToProjection(msg))
		}
	}
	return result, nil
}

// AddReaction добавляет реакцию к сообщению и возвращает пересчитанные
// счетчики. Временная метка сообщения не меняется.
func (s *MessageStore) AddReaction(
	_ context.Context,
	id string,
	reactionType messagedomain.ReactionType,
) (messagedomain.Tally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.byID[uuid.UUID(id)]
	if !ok {
		return messagedomain.Tally{}, errs.ErrNotFound
	}

	msg.AddReaction(messagedomain.NewReaction(reactionType, s.clock()))
	return messagedomain.ToTally(msg), nil
}

// Len возвращает количество сообщений в журнале.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}
