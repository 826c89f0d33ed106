package auth

import (
	"errors"
	"testing"
	"time"

	model "marketplace/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	token, err := v.Issue(model.Identity{UserID: "user1", Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	identity, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", identity.UserID)
	require.Equal(t, model.RoleAdmin, identity.Role)
}

func TestTokenVerifier_DefaultsToBuyer(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	token, err := v.Issue(model.Identity{UserID: "user1"}, time.Hour)
	require.NoError(t, err)

	identity, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, model.RoleBuyer, identity.Role)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	expired, err := v.Issue(model.Identity{UserID: "user1"}, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewTokenVerifier("other-secret").Issue(model.Identity{UserID: "user1"}, time.Hour)
	require.NoError(t, err)

	noUser, err := v.Issue(model.Identity{}, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-token", wantErr: ErrInvalidToken},
		{name: "expired", token: expired, wantErr: ErrInvalidToken},
		{name: "wrong_secret", token: otherSecret, wantErr: ErrInvalidToken},
		{name: "alg_none", token: none, wantErr: ErrInvalidToken},
		{name: "missing_user", token: noUser, wantErr: ErrMissingUser},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(tc.token)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
		})
	}
}
