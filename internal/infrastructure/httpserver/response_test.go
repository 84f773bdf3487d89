package httpserver_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/murmur/internal/domain/errs"
	"github.com/lllypuk/murmur/internal/infrastructure/httpserver"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name           string
		code           int
		data           any
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "object payload keeps plain shape",
			code:           http.StatusOK,
			data:           map[string]string{"key": "value"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"key":"value"}`,
		},
		{
			name:           "array payload keeps plain shape",
			code:           http.StatusOK,
			data:           []string{"a", "b"},
			expectedStatus: http.StatusOK,
			expectedBody:   `["a","b"]`,
		},
		{
			name: "created with struct",
			code: http.StatusCreated,
			data: struct {
				ID string `json:"id"`
			}{ID: "123"},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":"123"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)

			err := httpserver.RespondJSON(c, tt.code, tt.data)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestRespondCreated(t *testing.T) {
	c, rec := newTestContext(t)

	err := httpserver.RespondCreated(c, map[string]string{"id": "42"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"42"}`, rec.Body.String())
}

// testHTTPError implements the HTTPError interface for tests.
type testHTTPError struct {
	status  int
	code    string
	message string
}

func (e *testHTTPError) Error() string       { return e.message }
func (e *testHTTPError) HTTPStatus() int     { return e.status }
func (e *testHTTPError) HTTPCode() string    { return e.code }
func (e *testHTTPError) HTTPMessage() string { return e.message }

func TestRespondError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "error implementing HTTPError",
			err: &testHTTPError{
				status:  http.StatusBadRequest,
				code:    "CONTENT_REQUIRED",
				message: "content is required",
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"content is required"}`,
		},
		{
			name: "wrapped HTTPError",
			err: fmt.Errorf("handler: %w", &testHTTPError{
				status:  http.StatusNotFound,
				code:    "MESSAGE_NOT_FOUND",
				message: "Message not found",
			}),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Message not found"}`,
		},
		{
			name:           "domain not found",
			err:            errs.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"resource not found"}`,
		},
		{
			name:           "domain invalid input",
			err:            errs.ErrInvalidInput,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid input"}`,
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)

			err := httpserver.RespondError(c, tt.err)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
