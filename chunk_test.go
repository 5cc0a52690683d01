package prospector_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/prospector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses newline runs", "a\n\n\nb\n\nc", "a\nb\nc"},
		{"strips null bytes", "a\x00b", "ab"},
		{"trims whitespace", "  hello  \n", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, prospector.CleanText(tt.in))
		})
	}
}

func TestStripCommonAffixes(t *testing.T) {
	t.Parallel()

	t.Run("removes shared prefix and suffix", func(t *testing.T) {
		t.Parallel()

		got := prospector.StripCommonAffixes([]string{"PREFIX-X-SUFFIX", "PREFIX-Y-SUFFIX"})
		assert.Equal(t, []string{"X", "Y"}, got)
	})

	t.Run("no common affix leaves input trimmed", func(t *testing.T) {
		t.Parallel()

		got := prospector.StripCommonAffixes([]string{"alpha content", "beta material"})
		assert.Equal(t, []string{"alpha content", "beta material"}, got)
	})

	t.Run("single document is not stripped", func(t *testing.T) {
		t.Parallel()

		got := prospector.StripCommonAffixes([]string{" only one "})
		assert.Equal(t, []string{"only one"}, got)
	})

	t.Run("identical documents strip to empty", func(t *testing.T) {
		t.Parallel()

		got := prospector.StripCommonAffixes([]string{"same", "same"})
		assert.Equal(t, []string{"", ""}, got)
	})
}

func TestSplitText_RespectsSize(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)
	chunks := prospector.SplitText(text, 500)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 500)
	}
}

func TestSplitText_PrefersParagraphBoundaries(t *testing.T) {
	t.Parallel()

	para1 := strings.Repeat("a", 40)
	para2 := strings.Repeat("b", 40)
	text := para1 + "\n\n" + para2

	chunks := prospector.SplitText(text, 50)

	require.Len(t, chunks, 2)
	assert.Equal(t, para1, strings.TrimSpace(chunks[0]))
	assert.Equal(t, para2, strings.TrimSpace(chunks[1]))
}

func TestSplitText_Deterministic(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("Sentence one is here. Sentence two follows.\n\n", 100)

	first := prospector.SplitText(text, 300)
	second := prospector.SplitText(text, 300)

	assert.Equal(t, first, second)
}

func TestSplitText_HardCutFallback(t *testing.T) {
	t.Parallel()

	// A single unbreakable token longer than the window.
	text := strings.Repeat("x", 120)
	chunks := prospector.SplitText(text, 50)

	require.Len(t, chunks, 3)
	assert.Equal(t, 50, len(chunks[0]))
	assert.Equal(t, 50, len(chunks[1]))
	assert.Equal(t, 20, len(chunks[2]))
}

func TestSplitText_HardCutKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	// An unbreakable run of multi-byte runes: the window boundary at 50
	// bytes falls mid-rune, so the cut must back off to a rune boundary.
	text := strings.Repeat("é", 60) // 120 bytes, no separators
	chunks := prospector.SplitText(text, 50)

	require.NotEmpty(t, chunks)
	var rejoined strings.Builder
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %q contains a split rune", c)
		assert.LessOrEqual(t, len(c), 50)
		rejoined.WriteString(c)
	}
	assert.Equal(t, text, rejoined.String())
}

func TestSplitText_ShortInput(t *testing.T) {
	t.Parallel()

	chunks := prospector.SplitText("short", 100)
	assert.Equal(t, []string{"short"}, chunks)

	assert.Empty(t, prospector.SplitText("   ", 100))
}

func TestDedupeChunks_KeepsFirst(t *testing.T) {
	t.Parallel()

	chunks := []prospector.ContentChunk{
		{Text: "duplicate", SourceURL: "https://example.com/a"},
		{Text: " duplicate ", SourceURL: "https://example.com/b"},
		{Text: "unique", SourceURL: "https://example.com/c"},
	}

	got := prospector.DedupeChunks(chunks)

	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/a", got[0].SourceURL)
	assert.Equal(t, "unique", got[1].Text)
}

func TestBuildChunks(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("Relevant company information appears here. ", 10)
	pages := []*prospector.Page{
		{URL: "https://example.com/about", Content: long, CompanyLikelihood: 1},
		{URL: "https://example.com/team", Content: "too short", PeopleLikelihood: 1},
	}

	chunks := prospector.BuildChunks(pages, 2000)

	require.Len(t, chunks, 1)
	assert.Equal(t, "https://example.com/about", chunks[0].SourceURL)
	assert.Equal(t, 1.0, chunks[0].CompanyLikelihood)
	assert.GreaterOrEqual(t, len(chunks[0].Text), prospector.MinChunkLen)
}

func TestBuildChunks_MinLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("Words and more words fill this page with content. ", 100)
	pages := []*prospector.Page{{URL: "https://example.com", Content: long}}

	for _, c := range prospector.BuildChunks(pages, 500) {
		assert.GreaterOrEqual(t, len(c.Text), prospector.MinChunkLen)
	}
}

func TestContentChunk_Validate(t *testing.T) {
	t.Parallel()

	valid := prospector.ContentChunk{Text: "text", SourceURL: "https://example.com"}
	assert.NoError(t, valid.Validate())

	missing := prospector.ContentChunk{Text: "text"}
	assert.Equal(t, prospector.EINVALID, prospector.ErrorCode(missing.Validate()))
}
