package message

import (
	"net/http"
)

// appError is a helper type that implements httpserver.HTTPError interface.
type appError struct {
	msg        string
	httpStatus int
	httpCode   string
	httpMsg    string
}

func (e *appError) Error() string       { return e.msg }
func (e *appError) HTTPStatus() int     { return e.httpStatus }
func (e *appError) HTTPCode() string    { return e.httpCode }
func (e *appError) HTTPMessage() string { return e.httpMsg }

var (
	// ErrContentRequired indicates that message content cannot be empty
	ErrContentRequired = &appError{
		msg:        "message content is required",
		httpStatus: http.StatusBadRequest,
		httpCode:   "CONTENT_REQUIRED",
		httpMsg:    "content is required",
	}
	ErrContentTooLong = &appError{
		msg:        "message content too long",
		httpStatus: http.StatusBadRequest,
		httpCode:   "CONTENT_TOO_LONG",
		httpMsg:    "content is too long",
	}

	// ErrInvalidReactionType indicates an unknown reaction type
	ErrInvalidReactionType = &appError{
		msg:        "invalid reaction type",
		httpStatus: http.StatusBadRequest,
		httpCode:   "INVALID_REACTION_TYPE",
		httpMsg:    "type must be 'like' or 'dislike'",
	}

	// ErrMessageNotFound indicates that message was not found
	ErrMessageNotFound = &appError{
		msg:        "message not found",
		httpStatus: http.StatusNotFound,
		httpCode:   "MESSAGE_NOT_FOUND",
		httpMsg:    "Message not found",
	}
)

const (
	// MaxContentLength максимальная длина сообщения (10k символов)
	MaxContentLength = 10000
)
