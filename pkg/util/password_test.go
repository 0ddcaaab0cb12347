package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)
	assert.Contains(t, hash, "$2a$")

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("mySecurePassword123")
	require.NoError(t, err)

	tests := []struct {
		name           string
		hashedPassword string
		password       string
		want           bool
	}{
		{
			name:           "Correct password",
			hashedPassword: hash,
			password:       "mySecurePassword123",
			want:           true,
		},
		{
			name:           "Incorrect password",
			hashedPassword: hash,
			password:       "wrongPassword",
			want:           false,
		},
		{
			name:           "Empty password",
			hashedPassword: hash,
			password:       "",
			want:           false,
		},
		{
			name:           "Garbage hash",
			hashedPassword: "not-a-bcrypt-hash",
			password:       "mySecurePassword123",
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hashedPassword, tt.password))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("testPassword")
	require.NoError(t, err)
	second, err := HashPassword("testPassword")
	require.NoError(t, err)

	// Same input, different salts
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "testPassword"))
	assert.True(t, VerifyPassword(second, "testPassword"))
}
