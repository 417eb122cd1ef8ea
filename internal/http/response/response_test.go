package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/logger"
	"github.com/listenupapp/staff-directory/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()

	OK(w, map[string]string{"status": "healthy"}, logger.Discard())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(1), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"status": "healthy"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestJSON_StatusCodeBoundary(t *testing.T) {
	tests := []struct {
		status  int
		success bool
	}{
		{http.StatusOK, true},
		{http.StatusFound, true},
		{http.StatusBadRequest, false},
		{http.StatusMethodNotAllowed, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.status, "x", nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.success, decode(t, w)["success"])
		})
	}
}

func TestError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, domainerrors.MethodNotAllowed(http.MethodGet), logger.Discard())

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{
		"code":    "METHOD_NOT_ALLOWED",
		"message": "method not allowed",
		"details": map[string]any{"allowed": []any{"GET"}},
	}, body["error"])
}

func TestError_MessageExcludesCause(t *testing.T) {
	w := httptest.NewRecorder()

	err := domainerrors.Wrap(errors.New("disk full"), domainerrors.CodeInternal, "save tag")
	Error(w, err, logger.Discard())

	errBody := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, "save tag", errBody["message"])
}

func TestError_StoreError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, fmt.Errorf("get person: %w", store.ErrNotFound), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	errBody := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestError_UnknownIsInternal(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, errors.New("boom"), logger.Discard())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	errBody := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, "INTERNAL", errBody["code"])
	assert.Equal(t, "internal server error", errBody["message"])
}

func TestText(t *testing.T) {
	w := httptest.NewRecorder()

	Text(w, http.StatusOK, "a@example.com; b@example.com")

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "a@example.com; b@example.com", w.Body.String())
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, "slow down", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode(t, w)["error"].(map[string]any)["code"])
}
