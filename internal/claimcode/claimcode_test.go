package claimcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	g := New()

	for i := 0; i < 100; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.True(t, IsValid(code), "unexpected code shape: %s", code)
	}
}

func TestGenerateUniqueAcrossRun(t *testing.T) {
	g := New()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)

		_, dup := seen[code]
		require.False(t, dup, "duplicate code generated: %s", code)
		seen[code] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "well_formed", code: "BK-7F3K9Q", want: true},
		{name: "empty", code: "", want: false},
		{name: "missing_prefix", code: "7F3K9Q", want: false},
		{name: "lowercase_suffix", code: "BK-7f3k9q", want: false},
		{name: "too_short", code: "BK-7F3K9", want: false},
		{name: "too_long", code: "BK-7F3K9QQ", want: false},
		{name: "ambiguous_characters", code: "BK-0O1ILQ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.code))
		})
	}
}
