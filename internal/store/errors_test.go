package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/listenupapp/staff-directory/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}
	assert.Equal(t, "not found", err.Error())

	withCause := err.WithCause(errors.New("no rows"))
	assert.Equal(t, "not found: no rows", withCause.Error())
}

func TestError_IsMatchesCode(t *testing.T) {
	custom := store.ErrNotFound.WithMessage("person not found")

	assert.True(t, errors.Is(custom, store.ErrNotFound))
	assert.False(t, errors.Is(custom, store.ErrAlreadyExists))
	assert.True(t, errors.Is(fmt.Errorf("get person: %w", custom), store.ErrNotFound))
}

func TestError_HTTPCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, store.ErrAlreadyExists.HTTPCode())
}
