package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playforge/walletd/internal/shared/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"bad request", apperr.BadRequest("amount must be positive"), apperr.KindBadRequest},
		{"not found", apperr.NotFound("wallet"), apperr.KindNotFound},
		{"conflict", apperr.Conflict("key reused"), apperr.KindConflict},
		{"unprocessable", apperr.Unprocessable("insufficient funds"), apperr.KindUnprocessable},
		{"transient", apperr.Transient("deadlock", nil), apperr.KindTransient},
		{"timeout", apperr.Timeout("cancelled", nil), apperr.KindTimeout},
		{"internal", apperr.Internal("boom", nil), apperr.KindInternal},
		{"plain error defaults to internal", errors.New("boom"), apperr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, apperr.KindOf(tt.err))
			assert.True(t, apperr.IsKind(tt.err, tt.kind))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := apperr.Unprocessable("insufficient funds")
	wrapped := fmt.Errorf("transfer failed: %w", inner)

	assert.Equal(t, apperr.KindUnprocessable, apperr.KindOf(wrapped))

	appErr, ok := apperr.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "insufficient funds", appErr.Message)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := apperr.Wrap(cause, apperr.KindConflict, "owner ref already taken")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CONFLICT")
	assert.Contains(t, err.Error(), "owner ref already taken")
}

func TestIsTransient(t *testing.T) {
	assert.True(t, apperr.IsTransient(apperr.Transient("serialization failure", nil)))
	assert.False(t, apperr.IsTransient(apperr.Conflict("key reused")))
	assert.False(t, apperr.IsTransient(errors.New("boom")))
	assert.False(t, apperr.IsTransient(nil))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: wallet not found", apperr.NotFound("wallet").Error())
}
