package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "john@example.com", false},
		{"subdomain", "john@mail.example.com", false},
		{"plus and dots", "john.doe+news@example.org", false},
		{"underscore and dash", "j_d-1@x", false},
		{"mixed case kept", "John@Example.COM", false},
		{"empty", "", true},
		{"missing at", "john.example.com", true},
		{"missing local part", "@example.com", true},
		{"missing domain", "john@", true},
		{"space in local part", "jo hn@example.com", true},
		{"newline in domain", "john@exa\nmple.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFormat), "want InvalidFormat, got %v", err)
				assert.True(t, email.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, email.String())
		})
	}
}

func TestNewEmail_InvalidMessage(t *testing.T) {
	_, err := NewEmail("nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email format: nope", err.Error())
}

func TestEmail_EqualityIsCaseSensitive(t *testing.T) {
	a, _ := NewEmail("john@example.com")
	b, _ := NewEmail("john@example.com")
	c, _ := NewEmail("John@example.com")

	assert.True(t, a.Equals(b))
	assert.Equal(t, a, b)
	assert.False(t, a.Equals(c))

	set := map[Email]struct{}{a: {}}
	_, ok := set[b]
	assert.True(t, ok)
}
