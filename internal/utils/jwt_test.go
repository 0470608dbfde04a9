package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTUtil_GenerateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	userID := 42

	tokenString, err := jwtUtil.GenerateToken(userID)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// Validate the token to ensure it's well-formed and round-trips the subject
	subject, err := jwtUtil.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestJWTUtil_TokenExpiry(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	tokenString, err := jwtUtil.GenerateToken(1)
	assert.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour) // Token expires in the past

	tokenString, _ := jwtUtil.GenerateToken(1)

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour)

	tokenString, _ := jwtUtil1.GenerateToken(1)

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestJWTUtil_ValidateToken_NonNumericSubject(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	claims := &jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("secret"))
	assert.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestJWTUtil_ValidateToken_UnexpectedSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	// "none" is not an HMAC method and must be rejected by the keyfunc
	claims := &jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
}
