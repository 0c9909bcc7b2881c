package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallvault/internal/errors"
)

func TestAppError_Formatting(t *testing.T) {
	err := errors.NewNotFoundError("flashcard", "abc")
	assert.Equal(t, "NOT_FOUND: flashcard not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Status)

	wrapped := errors.NewStorageError(stderrors.New("disk full"))
	assert.Equal(t, "STORAGE_ERROR: failed to persist changes (disk full)", wrapped.Error())
	assert.Equal(t, http.StatusServiceUnavailable, wrapped.Status)
}

func TestAppError_UnwrapChain(t *testing.T) {
	cause := stderrors.New("bad quality")
	err := fmt.Errorf("review: %w", errors.NewValidationError("quality", "out of range", cause))

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.True(t, stderrors.Is(err, cause))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errors.ErrCodeBadRequest, errors.CodeOf(errors.NewBadRequestError("nope")))
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(stderrors.New("boom")))
}
