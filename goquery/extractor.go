// Package goquery provides CSS-selector based HTML processing: extracting
// the content region of a page with boilerplate removed, and locating a
// site's favicon.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prospector"
)

var _ prospector.Extractor = (*Extractor)(nil)

// Boilerplate markers. An element whose class contains one of these
// substrings, or whose id matches one of the id markers, is dropped along
// with its subtree.
var (
	denyClasses = []string{"sidebar", "footer", "header", "nav", "menu", "advertisement", "widget"}
	denyIDs     = []string{"footer", "header", "navbar", "sidebar"}
)

// Tags removed unconditionally before content selection.
var strippedTags = "script, style, noscript, iframe, svg, form, button"

// Containers tried in order when selecting the content region.
var contentContainers = []string{"article", "main", "[role=main]", "body"}

// Extractor pulls the content region out of a raw HTML page, dropping
// navigation, sidebars and other boilerplate.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the page, removes boilerplate elements and returns the HTML
// of the main content container together with the page title.
func (e *Extractor) Extract(html string) (*prospector.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prospector.Errorf(prospector.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(strippedTags).Remove()

	doc.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		if isBoilerplate(sel) {
			sel.Remove()
		}
	})

	var container *goquery.Selection
	for _, c := range contentContainers {
		if s := doc.Find(c).First(); s.Length() > 0 {
			container = s
			break
		}
	}
	if container == nil {
		return nil, prospector.Errorf(prospector.EINVALID, "no content container found")
	}

	contentHTML, err := goquery.OuterHtml(container)
	if err != nil {
		return nil, prospector.Errorf(prospector.EINTERNAL, "serializing content: %v", err)
	}
	if strings.TrimSpace(container.Text()) == "" {
		return nil, prospector.Errorf(prospector.ENOTFOUND, "page has no text content")
	}

	return &prospector.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

// isBoilerplate reports whether an element's class or id marks it as
// navigation chrome rather than content.
func isBoilerplate(sel *goquery.Selection) bool {
	if class, ok := sel.Attr("class"); ok {
		lc := strings.ToLower(class)
		for _, marker := range denyClasses {
			if strings.Contains(lc, marker) {
				return true
			}
		}
	}
	if id, ok := sel.Attr("id"); ok {
		lid := strings.ToLower(id)
		for _, marker := range denyIDs {
			if lid == marker || strings.Contains(lid, marker) {
				return true
			}
		}
	}
	return false
}
