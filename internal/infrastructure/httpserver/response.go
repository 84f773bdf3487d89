package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/murmur/internal/domain/errs"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError interface allows application errors to define their HTTP representation.
// Errors implementing this interface will be automatically mapped to proper HTTP responses.
type HTTPError interface {
	error
	HTTPStatus() int
	HTTPCode() string
	HTTPMessage() string
}

// RespondJSON sends a JSON response with the given status code.
// Payloads are written as-is: arrays and objects keep their plain shape.
func RespondJSON(c echo.Context, code int, data any) error {
	return c.JSON(code, data)
}

// RespondOK sends a 200 OK response with data.
func RespondOK(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data.
func RespondCreated(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response.
func RespondNoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// RespondError sends an error JSON response based on the error type.
func RespondError(c echo.Context, err error) error {
	statusCode, message := mapError(err)
	return c.JSON(statusCode, ErrorResponse{Error: message})
}

// mapError maps errors to HTTP status codes and client-facing messages.
func mapError(err error) (int, string) {
	// First, check if the error implements HTTPError interface
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.HTTPStatus(), httpErr.HTTPMessage()
	}

	// Fall back to domain error mapping
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "resource not found"

	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, "resource already exists"

	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
