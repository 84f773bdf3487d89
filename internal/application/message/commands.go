package message

// PostMessageCommand - публикация нового сообщения
type PostMessageCommand struct {
	Sender  string // пустой отправитель заменяется на "Anonymous"
	Content string
}

// CommandName returns command name
func (c PostMessageCommand) CommandName() string { return "PostMessage" }

// AddReactionCommand - добавление реакции к сообщению
type AddReactionCommand struct {
	MessageID string
	Type      string // "like" или "dislike"
}

// CommandName returns command name
func (c AddReactionCommand) CommandName() string { return "AddReaction" }
