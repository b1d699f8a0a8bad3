package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_PinnedOrder(t *testing.T) {
	codes := NewCatalog().List()

	require.GreaterOrEqual(t, len(codes), 2)
	assert.Equal(t, "en_us", codes[0])
	assert.Equal(t, "id", codes[1])
}

func TestListDetail_NamesResolved(t *testing.T) {
	details := NewCatalog().ListDetail()

	require.NotEmpty(t, details)
	assert.Equal(t, Detail{Code: "en_us", Name: "English (US)"}, details[0])
	assert.Equal(t, Detail{Code: "id", Name: "Bahasa Indonesia"}, details[1])
}

func TestNativeName_FallbackToCode(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, "Bahasa Indonesia", c.NativeName("id"))
	assert.Equal(t, "Bahasa Indonesia", c.NativeName("ID"))
	assert.Equal(t, "xx", c.NativeName("xx"))
}

func TestLoad_MergesBaseLayers(t *testing.T) {
	c := NewCatalog()

	en := c.Load("en_us")
	assert.Equal(t, "Send", en["chat.send"])

	id := c.Load("id")
	assert.Equal(t, "Kirim", id["chat.send"])
	// Keys shared with the base stay resolvable.
	assert.Equal(t, "Changli Chat", id["app.title"])
}

func TestLoad_UnknownCodeStillResolves(t *testing.T) {
	table := NewCatalog().Load("xx")

	assert.NotEmpty(t, table["chat.send"])
	assert.NotEmpty(t, table["app.title"])
}

func TestLoad_EmptyCodeDefaults(t *testing.T) {
	table := NewCatalog().Load("")

	assert.Equal(t, "Send", table["chat.send"])
}
