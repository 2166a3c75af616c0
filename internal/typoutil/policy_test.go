package typoutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_AllowedTypos(t *testing.T) {
	p := NewPolicy(5, 9, 2, nil)

	for n := 1; n <= 12; n++ {
		word := strings.Repeat("a", n)
		want := 0
		switch {
		case n >= 9:
			want = 2
		case n >= 5:
			want = 1
		}
		assert.Equal(t, want, p.AllowedTypos(word), "length %d", n)
	}
}

func TestPolicy_CountsRunes(t *testing.T) {
	p := NewPolicy(5, 9, 2, nil)
	assert.Equal(t, 0, p.AllowedTypos("café"))
	assert.Equal(t, 1, p.AllowedTypos("cafés"))
}

func TestPolicy_MaxTyposCaps(t *testing.T) {
	p := NewPolicy(5, 9, 1, nil)
	assert.Equal(t, 1, p.AllowedTypos("internationalization"))

	p = NewPolicy(5, 9, 0, nil)
	assert.Equal(t, 0, p.AllowedTypos("internationalization"))
}

func TestPolicy_NonTypoTolerantWords(t *testing.T) {
	p := NewPolicy(5, 9, 2, []string{"Netflix"})
	assert.Equal(t, 0, p.AllowedTypos("netflix"))
	assert.False(t, p.IsTypoTolerant("NETFLIX"))
	assert.True(t, p.IsTypoTolerant("netflux"))
}
