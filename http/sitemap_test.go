package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/prospector"
	prospectorhttp "github.com/fwojciec/prospector/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves the given path->body map, substituting {{BASE}} in
// bodies with the server's own URL.
func newTestServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))
	return srv
}

func TestSitemapService_Resolve(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/about/company</loc></url>
  <url><loc>{{BASE}}/team</loc></url>
  <url><loc>{{BASE}}/about</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{"/sitemap.xml": sitemapXML})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{})

	require.NoError(t, err)
	// Sorted by ascending URL length.
	assert.Equal(t, []string{
		srv.URL + "/team",
		srv.URL + "/about",
		srv.URL + "/about/company",
	}, urls)
}

func TestSitemapService_Resolve_SitemapIndex(t *testing.T) {
	t.Parallel()

	index := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-blog.xml</loc></sitemap>
</sitemapindex>`
	pages := `<?xml version="1.0" encoding="UTF-8"?>
<urlset><url><loc>{{BASE}}/about</loc></url></urlset>`
	blog := `<?xml version="1.0" encoding="UTF-8"?>
<urlset><url><loc>{{BASE}}/blog/post</loc></url></urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":       index,
		"/sitemap-pages.xml": pages,
		"/sitemap-blog.xml":  blog,
	})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{srv.URL + "/about", srv.URL + "/blog/post"}, urls)
}

func TestSitemapService_Resolve_SkipsOversizedSitemap(t *testing.T) {
	t.Parallel()

	var big strings.Builder
	big.WriteString(`<?xml version="1.0" encoding="UTF-8"?><urlset>`)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&big, "<url><loc>{{BASE}}/bulk/%d</loc></url>", i)
	}
	big.WriteString(`</urlset>`)

	index := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex>
  <sitemap><loc>{{BASE}}/big.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/small.xml</loc></sitemap>
</sitemapindex>`
	small := `<?xml version="1.0" encoding="UTF-8"?>
<urlset><url><loc>{{BASE}}/about</loc></url></urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": index,
		"/big.xml":     big.String(),
		"/small.xml":   small,
	})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{MaxURLsPerSitemap: 3})

	require.NoError(t, err)
	// The oversized sitemap contributes nothing; it is not truncated.
	assert.Equal(t, []string{srv.URL + "/about"}, urls)
}

func TestSitemapService_Resolve_EnforcesTotalBudget(t *testing.T) {
	t.Parallel()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><urlset>`)
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&body, "<url><loc>{{BASE}}/page/%d</loc></url>", i)
	}
	body.WriteString(`</urlset>`)

	srv := newTestServer(t, map[string]string{"/sitemap.xml": body.String()})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{MaxURLs: 4})

	require.NoError(t, err)
	assert.Len(t, urls, 4)
}

func TestSitemapService_Resolve_FiltersForeignAndXMLURLs(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset>
  <url><loc>{{BASE}}/about</loc></url>
  <url><loc>https://other.example.com/about</loc></url>
  <url><loc>{{BASE}}/feed.xml</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{"/sitemap.xml": sitemapXML})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{})

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/about"}, urls)
}

func TestSitemapService_Resolve_CyclicIndexTerminates(t *testing.T) {
	t.Parallel()

	index := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/leaf.xml</loc></sitemap>
</sitemapindex>`
	leaf := `<?xml version="1.0" encoding="UTF-8"?>
<urlset><url><loc>{{BASE}}/about</loc></url></urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": index,
		"/leaf.xml":    leaf,
	})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{})

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/about"}, urls)
}

func TestSitemapService_Resolve_BrokenSitemapIsNonFatal(t *testing.T) {
	t.Parallel()

	index := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex>
  <sitemap><loc>{{BASE}}/missing.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/garbled.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/good.xml</loc></sitemap>
</sitemapindex>`
	good := `<?xml version="1.0" encoding="UTF-8"?>
<urlset><url><loc>{{BASE}}/about</loc></url></urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": index,
		"/garbled.xml": "<<<not xml",
		"/good.xml":    good,
	})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{})

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/about"}, urls)
}

func TestSitemapService_Resolve_MissingSitemapReturnsEmpty(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{})
	defer srv.Close()

	svc := prospectorhttp.NewSitemapService(srv.Client())
	urls, err := svc.Resolve(context.Background(), srv.URL, prospector.SitemapLimits{})

	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSitemapService_Resolve_InvalidSiteURL(t *testing.T) {
	t.Parallel()

	svc := prospectorhttp.NewSitemapService(nil)
	_, err := svc.Resolve(context.Background(), "not-a-url", prospector.SitemapLimits{})

	require.Error(t, err)
	assert.Equal(t, prospector.EINVALID, prospector.ErrorCode(err))
}
