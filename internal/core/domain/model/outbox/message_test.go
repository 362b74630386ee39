package outbox_test

import (
	"errors"
	"testing"
	"time"

	"inflight/internal/core/domain/model/outbox"
	"inflight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("should create pending message", func(t *testing.T) {
		payload := []byte(`{"q":"hi"}`)
		m, err := outbox.NewMessage(outbox.TargetAI, payload, time.Now())

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, outbox.TargetAI, m.Target())
		assert.False(t, m.IsSent())
		assert.Zero(t, m.Attempts())
		assert.Empty(t, m.LastError())

		payload[0] = 'X'
		assert.Equal(t, `{"q":"hi"}`, string(m.Payload()))
	})

	t.Run("should require target", func(t *testing.T) {
		_, err := outbox.NewMessage("", []byte("{}"), time.Now())
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should require payload", func(t *testing.T) {
		_, err := outbox.NewMessage(outbox.TargetGround, nil, time.Now())
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestMessage_Delivery(t *testing.T) {
	m, err := outbox.NewMessage(outbox.TargetGround, []byte("{}"), time.Now())
	require.NoError(t, err)
	require.NoError(t, m.AssignID(5))

	m.RecordFailure(errors.New("connection refused"))
	assert.False(t, m.IsSent())
	assert.Equal(t, 1, m.Attempts())
	assert.Equal(t, "connection refused", m.LastError())

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, m.MarkSent(at))
	assert.True(t, m.IsSent())
	assert.Equal(t, 2, m.Attempts())
	assert.Empty(t, m.LastError())
	sentAt, ok := m.SentAt()
	assert.True(t, ok)
	assert.Equal(t, at, sentAt)

	assert.ErrorIs(t, m.MarkSent(at.Add(time.Minute)), outbox.ErrMessageAlreadySent)
	assert.True(t, m.IsSent())
}

func TestRestoreMessage(t *testing.T) {
	at := time.Now()
	m, err := outbox.RestoreMessage(9, outbox.TargetAI, []byte("{}"), true, 3, "", at, &at)

	require.NoError(t, err)
	assert.Equal(t, int64(9), m.ID())
	assert.True(t, m.IsSent())
	assert.ErrorIs(t, m.AssignID(10), outbox.ErrMessageIDAlreadyAssigned)

	_, err = outbox.RestoreMessage(0, outbox.TargetAI, []byte("{}"), false, 0, "", at, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = outbox.RestoreMessage(1, outbox.TargetAI, []byte("{}"), false, -1, "", at, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
