// Package utils provides utility functions for the application.
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVerificationToken(t *testing.T) {
	token := NewVerificationToken()

	assert.Len(t, token, VerificationTokenLength)
	assert.True(t, IsVerificationToken(token))

	// Every character must be an uppercase hex digit
	for _, c := range token {
		valid := (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
		assert.True(t, valid, "unexpected character %q in token %s", c, token)
	}
}

func TestNewVerificationTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := NewVerificationToken()
		assert.False(t, seen[token], "duplicate token generated: %s", token)
		seen[token] = true
	}
}

func TestIsVerificationToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "valid token",
			input: "0123456789ABCDEF",
			want:  true,
		},
		{
			name:  "all digits",
			input: "1111111111111111",
			want:  true,
		},
		{
			name:  "all letters",
			input: "ABCDEFABCDEFABCD",
			want:  true,
		},
		{
			name:  "empty string",
			input: "",
			want:  false,
		},
		{
			name:  "too short",
			input: "0123456789ABCDE",
			want:  false,
		},
		{
			name:  "too long",
			input: "0123456789ABCDEF0",
			want:  false,
		},
		{
			name:  "lowercase hex rejected",
			input: "0123456789abcdef",
			want:  false,
		},
		{
			name:  "non-hex letter",
			input: "0123456789ABCDEG",
			want:  false,
		},
		{
			name:  "whitespace",
			input: "0123456789ABCDE ",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVerificationToken(tt.input))
		})
	}
}
