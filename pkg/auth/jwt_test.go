package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantTokenRoundTrip(t *testing.T) {
	v := NewVerifier("secret")
	token, err := v.GenerateParticipantToken("alice", time.Minute)
	require.NoError(t, err)

	claims, err := v.ValidateParticipantToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.ParticipantUUID())
}

func TestParticipantTokenRejected(t *testing.T) {
	v := NewVerifier("secret")

	expired, err := v.GenerateParticipantToken("alice", -time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateParticipantToken(expired)
	assert.Error(t, err)

	foreign, err := NewVerifier("other").GenerateParticipantToken("alice", time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateParticipantToken(foreign)
	assert.Error(t, err)

	anonymous, err := v.GenerateParticipantToken("", time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateParticipantToken(anonymous)
	assert.Error(t, err)

	_, err = v.ValidateParticipantToken("not a token")
	assert.Error(t, err)
}
