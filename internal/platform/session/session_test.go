package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestService_Disabled(t *testing.T) {
	svc, err := NewService("", "")
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	token, sess, err := svc.Anonymous()
	require.NoError(t, err)
	assert.Equal(t, DefaultAnalyst, sess.Analyst)

	parsed, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sess, parsed)
}

func TestService_Login(t *testing.T) {
	svc, err := NewService(testSecret, "s3cret")
	require.NoError(t, err)
	require.True(t, svc.Enabled())

	t.Run("Wrong_Code", func(t *testing.T) {
		_, _, err := svc.Login("ana", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Missing_Analyst", func(t *testing.T) {
		_, _, err := svc.Login("  ", "s3cret")
		assert.ErrorIs(t, err, ErrMissingAnalyst)
	})

	t.Run("Success", func(t *testing.T) {
		token, sess, err := svc.Login(" ana ", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "ana", sess.Analyst)
		assert.NotEqual(t, uuid.Nil, sess.ID)

		parsed, err := svc.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, sess, parsed)
	})
}

func TestService_ParseRejects(t *testing.T) {
	svc, err := NewService(testSecret, "")
	require.NoError(t, err)
	other, err := NewService("ffffffffffffffffffffffffffffffff", "")
	require.NoError(t, err)

	token, _, err := other.Anonymous()
	require.NoError(t, err)
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "foreign signature")

	_, err = svc.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, _, err = svc.Anonymous()
	require.NoError(t, err)
	svc.now = func() time.Time { return issued.Add(DefaultTTL + time.Minute) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestContext(t *testing.T) {
	assert.Equal(t, DefaultAnalyst, AnalystFromContext(context.Background()))

	ctx := WithSession(context.Background(), Session{ID: uuid.New(), Analyst: "luis"})
	assert.Equal(t, "luis", AnalystFromContext(ctx))
}
