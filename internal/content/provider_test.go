package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Jokes(t *testing.T) {
	t.Parallel()

	jokes := []string{"a", "b", "c", "d", "e"}
	p := NewProviderWith(jokes, nil, nil)

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "no limit", limit: 0, want: jokes},
		{name: "negative limit", limit: -3, want: jokes},
		{name: "limit two", limit: 2, want: []string{"a", "b"}},
		{name: "limit equals total", limit: 5, want: jokes},
		{name: "limit above total", limit: 50, want: jokes},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, total := p.Jokes(tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 5, total)
		})
	}
}

func TestProvider_ReturnsCopies(t *testing.T) {
	t.Parallel()

	p := NewProvider()

	jokes, _ := p.Jokes(0)
	require.NotEmpty(t, jokes)
	jokes[0] = "mutated"
	again, _ := p.Jokes(0)
	assert.NotEqual(t, "mutated", again[0])

	quotes := p.Quotes()
	require.NotEmpty(t, quotes)
	quotes[0] = "mutated"
	assert.NotEqual(t, "mutated", p.Quotes()[0])

	facts := p.Facts()
	require.NotEmpty(t, facts)
	facts[0] = "mutated"
	assert.NotEqual(t, "mutated", p.Facts()[0])
}

func TestNewProvider_DefaultCollections(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	_, total := p.Jokes(0)
	assert.Equal(t, 5, total)
	assert.Len(t, p.Quotes(), 5)
	assert.Len(t, p.Facts(), 5)
}
