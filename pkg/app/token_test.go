package app

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "user-secret", Expiry: 24 * time.Hour, Issuer: "user-issuer"})

	token, err := tm.Generate(1001, "testuser", "127.0.0.1")
	require.NoError(t, err)

	user, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), user.UID)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "127.0.0.1", user.IP)
	assert.Equal(t, "user-issuer", user.Issuer)
	assert.Equal(t, "1001", user.Subject)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), user.ExpiresAt.Time, 2*time.Second)

	assert.NoError(t, tm.Validate(token))
}

func TestTokenManager_Defaults(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "k"})
	token, err := tm.Generate(3, "carol", "")
	require.NoError(t, err)

	user, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenIssuer, user.Issuer)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenExpiry), user.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "user-secret"})
	token, err := tm.Generate(1001, "testuser", "")
	require.NoError(t, err)

	expired, err := NewTokenManager(TokenConfig{SecretKey: "user-secret", Expiry: time.Nanosecond}).Generate(1, "x", "")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	wrongKey, err := NewTokenManager(TokenConfig{SecretKey: "other"}).Generate(1001, "testuser", "")
	require.NoError(t, err)

	noUID, err := NewTokenManager(TokenConfig{SecretKey: "user-secret"}).Generate(0, "nobody", "")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &UserEntity{UID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"tampered", token + "tampered", ErrTokenInvalid},
		{"wrong key", wrongKey, ErrTokenInvalid},
		{"expired", expired, ErrTokenInvalid},
		{"alg none", none, ErrTokenInvalid},
		{"garbage", "not-a-token", ErrTokenInvalid},
		{"missing uid", noUID, ErrTokenSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetUIDAndUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, int64(0), GetUID(c))
	assert.Equal(t, "", GetUsername(c))

	c.Set(UserTokenKey, &UserEntity{UID: 9, Username: "ivy"})
	assert.Equal(t, int64(9), GetUID(c))
	assert.Equal(t, "ivy", GetUsername(c))
}
