package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil))

	plain := Wrap(errors.New("boom"))
	assert.False(t, plain.Retryable)
	assert.Equal(t, 500, plain.Code)

	inner := Retriable("redis down")
	wrapped := fmt.Errorf("publish: %w", inner)
	assert.Same(t, inner, Wrap(wrapped))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(RetriableWithDetails("redis down", "dial tcp")))
	assert.False(t, IsRetryable(NonRetriable("bad payload")))
	assert.False(t, IsRetryable(errors.New("unknown")))
	assert.False(t, IsRetryable(nil))
}
