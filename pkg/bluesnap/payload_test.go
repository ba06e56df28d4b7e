package bluesnap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	t.Run("json by content type", func(t *testing.T) {
		p := parsePayload("application/json;charset=UTF-8", []byte(`{"data":[{"Invoice ID":123,"Flag":true,"Empty":null}]}`))
		table, ok := p.(*TablePayload)
		require.True(t, ok)
		require.True(t, table.HasData)
		require.Len(t, table.Rows, 1)

		row := table.Rows[0]
		assert.Equal(t, "123", row["Invoice ID"])
		assert.Equal(t, "1", row["Flag"])
		v, exists := row.Value("Empty")
		assert.True(t, exists)
		assert.Empty(t, v)
	})

	t.Run("invalid json falls back to text", func(t *testing.T) {
		p := parsePayload("application/json", []byte("Invalid Date Range"))
		tp, ok := p.(*TextPayload)
		require.True(t, ok)
		assert.Equal(t, "Invalid Date Range", tp.Text)
	})

	t.Run("xml without content type", func(t *testing.T) {
		p := parsePayload("", []byte(`<order><order-id>1</order-id></order>`))
		x, ok := p.(*XMLPayload)
		require.True(t, ok)
		assert.Equal(t, "order", x.Root.Tag)
	})

	t.Run("malformed xml is text", func(t *testing.T) {
		p := parsePayload("application/xml", []byte("<order><unclosed></order>"))
		tp, ok := p.(*TextPayload)
		require.True(t, ok)
		assert.Equal(t, "<order><unclosed></order>", tp.Text)
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Nil(t, parsePayload("application/xml", []byte("  \n")))
		assert.Nil(t, parsePayload("application/json", nil))
	})
}

func TestPathHelpers(t *testing.T) {
	p := parsePayload("application/xml", []byte(
		`<root><a><b>value</b><empty></empty></a></root>`)).(*XMLPayload)

	s, ok := text(p.Root, "a", "b")
	assert.True(t, ok)
	assert.Equal(t, "value", s)

	s, ok = text(p.Root, "a", "empty")
	assert.True(t, ok, "an empty element exists")
	assert.Empty(t, s)

	_, ok = text(p.Root, "a", "missing")
	assert.False(t, ok)
	assert.Nil(t, child(nil, "a"))
	assert.Empty(t, textOrEmpty(nil, "a"))
}
