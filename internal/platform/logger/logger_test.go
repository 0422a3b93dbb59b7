package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"confirmation_code", "abc123",
		"access_token", "x",
		"username", "alice",
	})
	assert.Equal(t, []interface{}{
		"confirmation_code", "[REDACTED]",
		"access_token", "[REDACTED]",
		"username", "alice",
	}, out)
}

func TestSanitizeKVsHashesEmail(t *testing.T) {
	out := sanitizeKVs([]interface{}{"email", "alice@example.com"})
	assert.Len(t, out, 2)
	hashed, ok := out[1].(string)
	assert.True(t, ok)
	assert.Contains(t, hashed, "hash:")
	assert.NotContains(t, hashed, "alice")
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"username", "bob", "dangling"})
	assert.Equal(t, []interface{}{"username", "bob", "dangling"}, out)
}

func TestLooksLikeJWT(t *testing.T) {
	assert.True(t, looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTYifQ.sig"))
	assert.False(t, looksLikeJWT("plain text"))
}
