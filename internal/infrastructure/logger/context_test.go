package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRequestID(t *testing.T) {
	t.Run("round-trips through the context", func(t *testing.T) {
		ctx := ContextWithRequestID(context.Background(), "req-123")
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("empty without a request id", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}
