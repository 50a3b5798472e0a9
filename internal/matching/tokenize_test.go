package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma separated", "Chicken, Rice", []string{"chicken", "rice"}},
		{"whitespace and punctuation", "  chicken breast,rice;\tbeans. ", []string{"chicken", "breast", "rice", "beans"}},
		{"duplicates kept", "rice, rice", []string{"rice", "rice"}},
		{"empty", " , ,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestTokenSet(t *testing.T) {
	assert.Equal(t, []string{"beans", "rice"}, TokenSet([]string{"Rice", "beans, rice"}))
}

func TestNormalizeQuery(t *testing.T) {
	got, err := NormalizeQuery([]string{"Rice", "chicken", "rice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"chicken", "rice"}, got)

	_, err = NormalizeQuery([]string{"rice"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ingredients", verr.Field)
	assert.Contains(t, verr.Message, "at least 2")

	_, err = NormalizeQuery([]string{"rice", "RICE"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NormalizeQuery([]string{"rice", "chicken", " ,"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "empty after normalization")
}
