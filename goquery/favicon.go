package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FaviconURL returns the absolute URL of the site's favicon, preferring a
// <link rel="icon"> declaration and falling back to /favicon.ico at the
// site root.
func FaviconURL(html, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return ""
	}
	fallback := base.ResolveReference(&url.URL{Path: "/favicon.ico"}).String()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fallback
	}

	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rel, _ := sel.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "icon") {
			return true
		}
		if h, ok := sel.Attr("href"); ok && strings.TrimSpace(h) != "" {
			href = strings.TrimSpace(h)
			return false
		}
		return true
	})
	if href == "" {
		return fallback
	}

	ref, err := url.Parse(href)
	if err != nil {
		return fallback
	}
	return base.ResolveReference(ref).String()
}
