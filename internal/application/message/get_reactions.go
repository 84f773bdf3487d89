package message

import (
	"context"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// GetReactionsUseCase обрабатывает получение реакций сообщения
type GetReactionsUseCase struct {
	store Store
}

// NewGetReactionsUseCase creates a new GetReactionsUseCase
func NewGetReactionsUseCase(store Store) *GetReactionsUseCase {
	return &GetReactionsUseCase{
		store: store,
	}
}

// Execute выполняет получение реакций
func (uc *GetReactionsUseCase) Execute(
	ctx context.Context,
	query GetReactionsQuery,
) (messagedomain.Detail, error) {
	if query.MessageID == "" {
		return messagedomain.Detail{}, ErrMessageNotFound
	}

	detail, err := uc.store.Detail(ctx, query.MessageID)
	if err != nil {
		return messagedomain.Detail{}, ErrMessageNotFound
	}

	return detail, nil
}
