package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference("SALE")

	parts := strings.Split(ref, "_")
	assert.Len(t, parts, 3)
	assert.Equal(t, "SALE", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 8)

	assert.NotEqual(t, ref, GenerateReference("SALE"))
}

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode()
	assert.Len(t, code, 8)
	assert.NotEqual(t, code, GenerateReferralCode())
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
