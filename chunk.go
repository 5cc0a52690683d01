package prospector

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Chunking bounds.
const (
	// ChunkSize is the target window size in characters. Windows do not overlap.
	ChunkSize = 2000

	// MinChunkLen is the minimum chunk length; shorter chunks are discarded
	// and never reach the index.
	MinChunkLen = 100
)

// ContentChunk is a bounded slice of a page's cleaned text, the unit stored
// in the semantic index. It carries the relevance scores of its source page
// for downstream filtering.
type ContentChunk struct {
	Text              string  `json:"text"`
	SourceURL         string  `json:"source_url"`
	CompanyLikelihood float64 `json:"company_likelihood"`
	PeopleLikelihood  float64 `json:"people_likelihood"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *ContentChunk) Validate() error {
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	if c.SourceURL == "" {
		return Errorf(EINVALID, "chunk source URL required")
	}
	return nil
}

var newlineRuns = regexp.MustCompile(`\n+`)

// CleanText collapses repeated newlines, strips null bytes, and trims
// surrounding whitespace.
func CleanText(s string) string {
	s = newlineRuns.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// StripCommonAffixes removes the longest prefix and the longest suffix shared
// by all texts. Repeated site chrome (headers, footers) survives per-page
// extraction but is identical across pages, so it shows up as a common affix
// of the whole corpus. Each result is trimmed. Fewer than two texts are
// returned trimmed but otherwise unchanged.
func StripCommonAffixes(texts []string) []string {
	out := make([]string, len(texts))
	if len(texts) < 2 {
		for i, t := range texts {
			out[i] = strings.TrimSpace(t)
		}
		return out
	}

	prefix := len(commonPrefix(texts))
	suffix := len(commonSuffix(texts))

	for i, t := range texts {
		start := prefix
		end := len(t) - suffix
		if end < start {
			out[i] = ""
			continue
		}
		out[i] = strings.TrimSpace(t[start:end])
	}
	return out
}

// commonPrefix returns the longest prefix shared by all texts.
func commonPrefix(texts []string) string {
	prefix := texts[0]
	for _, t := range texts[1:] {
		for !strings.HasPrefix(t, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
		if prefix == "" {
			return ""
		}
	}
	return prefix
}

// commonSuffix returns the longest suffix shared by all texts.
func commonSuffix(texts []string) string {
	suffix := texts[0]
	for _, t := range texts[1:] {
		for !strings.HasSuffix(t, suffix) {
			suffix = suffix[1:]
		}
		if suffix == "" {
			return ""
		}
	}
	return suffix
}

// splitSeparators are tried in order; each level falls back to the next when
// a fragment still exceeds the window size.
var splitSeparators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into windows of at most size characters, preferring
// paragraph, line, sentence, and word boundaries before hard cuts. Splitting
// is deterministic: identical input yields identical boundaries.
func SplitText(text string, size int) []string {
	if size <= 0 {
		size = ChunkSize
	}
	return splitAtLevel(text, size, 0)
}

func splitAtLevel(text string, size, level int) []string {
	if len(text) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}
	if level >= len(splitSeparators) {
		return hardSplit(text, size)
	}

	// SplitAfter keeps separators attached so no characters are lost
	// between windows.
	parts := strings.SplitAfter(text, splitSeparators[level])

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if s := cur.String(); strings.TrimSpace(s) != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}

	for _, part := range parts {
		if len(part) > size {
			flush()
			chunks = append(chunks, splitAtLevel(part, size, level+1)...)
			continue
		}
		if cur.Len()+len(part) > size {
			flush()
		}
		cur.WriteString(part)
	}
	flush()

	return chunks
}

func hardSplit(text string, size int) []string {
	var chunks []string
	for len(text) > size {
		// Back off to a rune boundary so a multi-byte character is never
		// split across windows.
		cut := size
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
			for cut < len(text) && !utf8.RuneStart(text[cut]) {
				cut++
			}
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if strings.TrimSpace(text) != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// DedupeChunks removes chunks with identical trimmed text, keeping the first
// occurrence.
func DedupeChunks(chunks []ContentChunk) []ContentChunk {
	seen := make(map[string]bool, len(chunks))
	var out []ContentChunk
	for _, c := range chunks {
		key := strings.TrimSpace(c.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// BuildChunks splits each page's content into windows, attaches the page's
// relevance scores, deduplicates by exact trimmed text, and drops chunks
// shorter than MinChunkLen.
func BuildChunks(pages []*Page, size int) []ContentChunk {
	var chunks []ContentChunk
	for _, page := range pages {
		for _, text := range SplitText(page.Content, size) {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			chunks = append(chunks, ContentChunk{
				Text:              text,
				SourceURL:         page.URL,
				CompanyLikelihood: page.CompanyLikelihood,
				PeopleLikelihood:  page.PeopleLikelihood,
			})
		}
	}
	chunks = DedupeChunks(chunks)

	var out []ContentChunk
	for _, c := range chunks {
		if len(c.Text) < MinChunkLen {
			continue
		}
		out = append(out, c)
	}
	return out
}
