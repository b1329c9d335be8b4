package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	svcErr := StorageUnavailable("write matches.json", cause)

	require.Error(t, svcErr)
	assert.Equal(t, CodeStorageUnavailable, svcErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.HTTPStatus)
	assert.ErrorIs(t, svcErr, cause)
	assert.Contains(t, svcErr.Error(), "disk full")
}

func TestHTTPStatusDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("minMatch", "must be in [0,1]")))
}

func TestIsServiceErrorThroughWrapping(t *testing.T) {
	wrapped := MalformedRecord(42, errors.New("unexpected EOF"))
	outer := errors.New("chunk failed: " + wrapped.Error())

	assert.True(t, IsServiceError(wrapped))
	assert.False(t, IsServiceError(outer))

	found := As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, 42, found.Details["line"])
}
