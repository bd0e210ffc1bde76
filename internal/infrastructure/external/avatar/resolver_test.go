package avatar

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLIsDeterministic(t *testing.T) {
	r := NewResolver()

	first := r.URL("Said")
	second := r.URL("Said")
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, DefaultBaseURL+"/"+DefaultStyle+"/svg?"))

	parsed, err := url.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, "Said", parsed.Query().Get("seed"))
}

func TestURLEscapesSeeds(t *testing.T) {
	r := NewResolver()

	parsed, err := url.Parse(r.URL("Ayşe Yılmaz"))
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", parsed.Query().Get("seed"))
}

func TestShopSeedsCarryStyleParams(t *testing.T) {
	r := NewResolver()

	king, err := url.Parse(r.URL("King"))
	require.NoError(t, err)
	assert.Equal(t, "graphicShirt", king.Query().Get("clothing"))

	mystery, err := url.Parse(r.URL("Mystery"))
	require.NoError(t, err)
	assert.Equal(t, "hat", mystery.Query().Get("top"))
	assert.Equal(t, "sunglasses", mystery.Query().Get("accessories"))

	plain, err := url.Parse(r.URL("Said"))
	require.NoError(t, err)
	assert.Empty(t, plain.Query().Get("clothing"), "unknown seeds get no extras")
}

func TestOptionsOverrideDefaults(t *testing.T) {
	r := NewResolver(WithBaseURL("https://dicebear.internal/9.x"), WithStyle("bottts"))

	got := r.URL("Robot")
	assert.True(t, strings.HasPrefix(got, "https://dicebear.internal/9.x/bottts/svg?"))
}
