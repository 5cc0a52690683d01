package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/prospector"
	"github.com/fwojciec/prospector/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements prospector.Converter at compile time.
var _ prospector.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Acme builds widgets.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Acme builds widgets.")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h1>About Us</h1><h2>Our Team</h2><h3>Leadership</h3>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# About Us")
		assert.Contains(t, md, "## Our Team")
		assert.Contains(t, md, "### Leadership")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>See our <a href="https://example.com/team">team page</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[team page](https://example.com/team)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ul><li>Jane Doe, CEO</li><li>John Roe, CTO</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- Jane Doe, CEO")
		assert.Contains(t, md, "- John Roe, CTO")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Name</th><th>Role</th></tr></thead>
<tbody><tr><td>Alice</td><td>CEO</td></tr><tr><td>Bob</td><td>CTO</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Alice")
		assert.Contains(t, md, "CEO")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p><strong>Mission</strong> and <em>vision</em>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**Mission**")
		assert.Contains(t, md, "*vision*")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("")

		require.Error(t, err)
		assert.Equal(t, prospector.EINVALID, prospector.ErrorCode(err))
	})
}
