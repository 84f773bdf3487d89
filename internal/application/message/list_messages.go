package message

import (
	"context"
	"fmt"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// ListMessagesUseCase обрабатывает получение списка сообщений
type ListMessagesUseCase struct {
	store Store
}

// NewListMessagesUseCase создает новый ListMessagesUseCase
func NewListMessagesUseCase(store Store) *ListMessagesUseCase {
	return &ListMessagesUseCase{
		store: store,
	}
}

// Execute выполняет получение списка сообщений.
// Отрицательный курсор эквивалентен нулю: вся история.
func (uc *ListMessagesUseCase) Execute(
	ctx context.Context,
	query ListMessagesQuery,
) ([]messagedomain.Projection, error) {
	since := query.Since
	if since < 0 {
		since = 0
	}

	projections, err := uc.store.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return projections, nil
}
