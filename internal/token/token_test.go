package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	svc := NewService([]byte("test_secret"))

	signed, err := svc.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	email, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", email)
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := NewService([]byte("test_secret"))
	other := NewService([]byte("other_secret"))

	signed, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	_, err = other.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	svc := &Service{Secret: []byte("test_secret"), TTL: -time.Minute}

	signed, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService([]byte("test_secret"))

	_, err := svc.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	require.ErrorIs(t, err, ErrInvalidToken)
}
