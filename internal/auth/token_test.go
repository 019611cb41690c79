package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, err := tokens.Issue(42, "ada@example.com")
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokens_Parse(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	issuer := NewTokens("secret", time.Hour)
	issuer.now = func() time.Time { return issuedAt }

	valid, err := issuer.Issue(1, "a@b.c")
	require.NoError(t, err)

	other, err := NewTokens("other-secret", time.Hour).Issue(1, "a@b.c")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	type args struct {
		raw string
		now time.Time
	}

	type testCase struct {
		name    string
		args    args
		wantErr bool
	}

	tests := []testCase{
		{name: "Valid", args: args{raw: valid, now: issuedAt.Add(30 * time.Minute)}},
		{name: "Expired", args: args{raw: valid, now: issuedAt.Add(2 * time.Hour)}, wantErr: true},
		{name: "WrongSecret", args: args{raw: other, now: time.Now()}, wantErr: true},
		{name: "NoneAlgorithm", args: args{raw: none, now: time.Now()}, wantErr: true},
		{name: "Garbage", args: args{raw: "not-a-token", now: time.Now()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewTokens("secret", time.Hour)
			verifier.now = func() time.Time { return tt.args.now }

			claims, err := verifier.Parse(tt.args.raw)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), claims.UserID)
		})
	}
}

func TestUserID(t *testing.T) {
	assert.Zero(t, UserID(context.Background()))

	ctx := WithClaims(context.Background(), &Claims{UserID: 7})
	assert.Equal(t, int64(7), UserID(ctx))
}
