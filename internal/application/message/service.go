package message

import (
	"context"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// Recorder принимает счетчики доменных операций.
// Объявлен на стороне потребителя, реализуется слоем метрик.
type Recorder interface {
	MessageCreated()
	ReactionRecorded(reactionType string)
}

// Service объединяет сценарии работы с сообщениями за одним фасадом.
// HTTP и WebSocket транспорты работают через него с общим хранилищем.
type Service struct {
	post     *PostMessageUseCase
	list     *ListMessagesUseCase
	detail   *GetReactionsUseCase
	react    *AddReactionUseCase
	recorder Recorder
}

// ServiceOption настраивает Service.
type ServiceOption func(*Service)

// WithRecorder подключает счетчики операций.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a new Service facade over the use cases
func NewService(
	post *PostMessageUseCase,
	list *ListMessagesUseCase,
	detail *GetReactionsUseCase,
	react *AddReactionUseCase,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		post:   post,
		list:   list,
		detail: detail,
		react:  react,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostMessage публикует сообщение в журнал
func (s *Service) PostMessage(
	ctx context.Context,
	cmd PostMessageCommand,
) (messagedomain.Projection, error) {
	projection, err := s.post.Execute(ctx, cmd)
	if err != nil {
		return messagedomain.Projection{}, err
	}
	if s.recorder != nil {
		s.recorder.MessageCreated()
	}
	return projection, nil
}

// ListMessages возвращает сообщения журнала начиная с курсора
func (s *Service) ListMessages(
	ctx context.Context,
	query ListMessagesQuery,
) ([]messagedomain.Projection, error) {
	return s.list.Execute(ctx, query)
}

// GetReactions возвращает реакции сообщения
func (s *Service) GetReactions(
	ctx context.Context,
	query GetReactionsQuery,
) (messagedomain.Detail, error) {
	return s.detail.Execute(ctx, query)
}

// AddReaction добавляет реакцию к сообщению
func (s *Service) AddReaction(
	ctx context.Context,
	cmd AddReactionCommand,
) (messagedomain.Tally, error) {
	tally, err := s.react.Execute(ctx, cmd)
	if err != nil {
		return messagedomain.Tally{}, err
	}
	if s.recorder != nil {
		s.recorder.ReactionRecorded(cmd.Type)
	}
	return tally, nil
}
