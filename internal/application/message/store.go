package message

import (
	"context"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// Store определяет интерфейс доступа к журналу сообщений.
// Интерфейс объявлен на стороне потребителя (application layer).
type Store interface {
	// Append создает сообщение и добавляет его в конец журнала
	Append(ctx context.Context, sender, content string) (messagedomain.Projection, error)

	// Get находит сообщение по ID
	Get(ctx context.Context, id string) (messagedomain.Projection, error)

	// Detail возвращает сообщение с полным списком реакций
	Detail(ctx context.Context, id string) (messagedomain.Detail, error)

	// ListSince возвращает сообщения с меткой >= since в порядке вставки
	ListSince(ctx context.Context, since int64) ([]messagedomain.Projection, error)

	// AddReaction добавляет реакцию и возвращает пересчитанные счетчики
	AddReaction(
		ctx context.Context,
		id string,
		reactionType messagedomain.ReactionType,
	) (messagedomain.Tally, error)
}
