package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewJWTService_MissingSecret(t *testing.T) {
	svc, err := NewJWTService("")
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	assert.NoError(t, err)

	userID := uuid.New()
	token, err := svc.IssueToken(userID, "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)

	// Expiry is fixed at one hour out.
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_VerifyFailures(t *testing.T) {
	svc, _ := NewJWTService("test-secret")
	otherSvc, _ := NewJWTService("other-secret")
	userID := uuid.New()

	validToken, _ := svc.IssueToken(userID, "test@example.com")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: userID.String(),
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	badPayload := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "not-a-uuid",
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	badPayloadToken, _ := badPayload.SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"tampered", validToken + "x"},
		{"expired", expiredToken},
		{"malformed payload", badPayloadToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.VerifyToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		claims, err := otherSvc.VerifyToken(validToken)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword("secret123", hash))
	assert.False(t, VerifyPassword("secret124", hash))

	otherHash, err := HashPassword("something-else")
	assert.NoError(t, err)
	assert.False(t, VerifyPassword("secret123", otherHash))
}
