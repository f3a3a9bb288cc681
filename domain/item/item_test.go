package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
		assert.NotEmpty(t, k.Path(), k.String())
	}
	_, ok := ParseKind("spaceship")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(99).String())
}
