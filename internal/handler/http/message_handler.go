package httphandler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	messageapp "github.com/lllypuk/murmur/internal/application/message"
	"github.com/lllypuk/murmur/internal/domain/message"
	"github.com/lllypuk/murmur/internal/domain/uuid"
	"github.com/lllypuk/murmur/internal/infrastructure/httpserver"
)

// PostMessageRequest represents the request to post a message.
type PostMessageRequest struct {
	Sender  string `json:"sender"  form:"sender"`
	Content string `json:"content" form:"content"`
}

// AddReactionRequest represents the request to attach a reaction.
type AddReactionRequest struct {
	Type string `json:"type" form:"type"`
}

// MessageService defines the interface for message operations.
// Declared on the consumer side per project guidelines.
type MessageService interface {
	// PostMessage appends a new message to the log.
	PostMessage(ctx context.Context, cmd messageapp.PostMessageCommand) (message.Projection, error)

	// ListMessages lists messages at or after the given cursor.
	ListMessages(ctx context.Context, query messageapp.ListMessagesQuery) ([]message.Projection, error)

	// GetReactions returns the reactions attached to a message.
	GetReactions(ctx context.Context, query messageapp.GetReactionsQuery) (message.Detail, error)

	// AddReaction attaches a reaction to a message.
	AddReaction(ctx context.Context, cmd messageapp.AddReactionCommand) (message.Tally, error)
}

// MessageHandler handles message-related HTTP requests.
type MessageHandler struct {
	messageService MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// RegisterRoutes registers message routes with the router.
func (h *MessageHandler) RegisterRoutes(r *httpserver.Router) {
	e := r.Echo()
	e.POST("/messages", h.Post)
	e.GET("/messages", h.List)
	e.GET("/messages/:id/reactions", h.Reactions)
	e.POST("/messages/:id/reactions", h.React)
}

// Post handles POST /messages.
// Appends a message to the log and returns its stored form.
func (h *MessageHandler) Post(c echo.Context) error {
	var req PostMessageRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondJSON(c, http.StatusBadRequest,
			httpserver.ErrorResponse{Error: "invalid request body"})
	}

	cmd := messageapp.PostMessageCommand{
		Sender:  req.Sender,
		Content: req.Content,
	}

	projection, err := h.messageService.PostMessage(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondCreated(c, projection)
}

// List handles GET /messages.
// Returns messages with timestamp at or after the since cursor.
func (h *MessageHandler) List(c echo.Context) error {
	query := messageapp.ListMessagesQuery{
		Since: parseSinceParam(c.QueryParam("since")),
	}

	projections, err := h.messageService.ListMessages(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, projections)
}

// Reactions handles GET /messages/:id/reactions.
// Returns the reaction list and counts for a single message.
func (h *MessageHandler) Reactions(c echo.Context) error {
	query := messageapp.GetReactionsQuery{
		MessageID: c.Param("id"),
	}

	detail, err := h.messageService.GetReactions(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, detail)
}

// React handles POST /messages/:id/reactions.
// Attaches a like or dislike and returns the updated counts.
func (h *MessageHandler) React(c echo.Context) error {
	var req AddReactionRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondJSON(c, http.StatusBadRequest,
			httpserver.ErrorResponse{Error: "invalid request body"})
	}

	cmd := messageapp.AddReactionCommand{
		MessageID: c.Param("id"),
		Type:      req.Type,
	}

	tally, err := h.messageService.AddReaction(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, tally)
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

// MockMessageService is a mock implementation of MessageService for testing.
type MockMessageService struct {
	log       []message.Projection
	reactions map[string][]message.ReactionView
	nextTS    int64

	PostErr error
}

// NewMockMessageService creates a new mock message service.
func NewMockMessageService() *MockMessageService {
	return &MockMessageService{
		reactions: make(map[string][]message.ReactionView),
		nextTS:    1000,
	}
}

// AddMessage seeds the mock with an existing message.
func (m *MockMessageService) AddMessage(p message.Projection) {
	m.log = append(m.log, p)
}

// PostMessage appends a message in the mock service.
func (m *MockMessageService) PostMessage(
	_ context.Context,
	cmd messageapp.PostMessageCommand,
) (message.Projection, error) {
	if m.PostErr != nil {
		return message.Projection{}, m.PostErr
	}
	if cmd.Content == "" {
		return message.Projection{}, messageapp.ErrContentRequired
	}

	sender := cmd.Sender
	if sender == "" {
		sender = "Anonymous"
	}

	m.nextTS++
	p := message.Projection{
		ID:        uuid.NewUUID(),
		Sender:    sender,
		Content:   cmd.Content,
		Timestamp: m.nextTS,
	}
	m.log = append(m.log, p)

	return p, nil
}

// ListMessages lists messages in the mock service.
func (m *MockMessageService) ListMessages(
	_ context.Context,
	query messageapp.ListMessagesQuery,
) ([]message.Projection, error) {
	result := make([]message.Projection, 0, len(m.log))
	for _, p := range m.log {
		if p.Timestamp >= query.Since {
			result = append(result, p)
		}
	}
	return result, nil
}

// GetReactions returns reactions for a message in the mock service.
func (m *MockMessageService) GetReactions(
	_ context.Context,
	query messageapp.GetReactionsQuery,
) (message.Detail, error) {
	for _, p := range m.log {
		if p.ID.String() == query.MessageID {
			views := m.reactions[query.MessageID]
			if views == nil {
				views = []message.ReactionView{}
			}
			likes, dislikes := countViews(views)
			return message.Detail{
				ID:        p.ID,
				Likes:     likes,
				Dislikes:  dislikes,
				Reactions: views,
			}, nil
		}
	}
	return message.Detail{}, messageapp.ErrMessageNotFound
}

// AddReaction attaches a reaction in the mock service.
func (m *MockMessageService) AddReaction(
	_ context.Context,
	cmd messageapp.AddReactionCommand,
) (message.Tally, error) {
	reactionType, err := message.ParseReactionType(cmd.Type)
	if err != nil {
		return message.Tally{}, messageapp.ErrInvalidReactionType
	}

	for _, p := range m.log {
		if p.ID.String() == cmd.MessageID {
			m.reactions[cmd.MessageID] = append(m.reactions[cmd.MessageID],
				message.ReactionView{Type: reactionType, At: time.Now()})
			likes, dislikes := countViews(m.reactions[cmd.MessageID])
			return message.Tally{ID: p.ID, Likes: likes, Dislikes: dislikes}, nil
		}
	}
	return message.Tally{}, messageapp.ErrMessageNotFound
}

func countViews(views []message.ReactionView) (likes, dislikes int) {
	for _, v := range views {
		switch v.Type {
		case message.ReactionLike:
			likes++
		case message.ReactionDislike:
			dislikes++
		}
	}
	return likes, dislikes
}
