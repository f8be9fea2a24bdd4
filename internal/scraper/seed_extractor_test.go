package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/logger/loggertest"
	"github.com/unclebandit/sem-planner-backend/internal/scraper"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>Acme Running Shoes</title>
  <meta name="description" content="Lightweight trainers for the city and the trail">
</head>
<body>
  <h1>Running <em>Shoes</em></h1>
  <h2>Trail Trainers</h2>
  <p>paragraph text is ignored</p>
  <h3>Shoes that have been tested</h3>
  <h4>footer heading ignored</h4>
</body>
</html>`

func newExtractor(t *testing.T) *scraper.SeedExtractor {
	return scraper.NewSeedExtractor(http.DefaultClient, "", 0, loggertest.New(t))
}

func TestPageText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(samplePage))
	require.NoError(t, err)

	text := scraper.PageText(doc)
	assert.Equal(t,
		"acme running shoes lightweight trainers for the city and the trail running shoes trail trainers shoes that have been tested",
		text)
	assert.NotContains(t, text, "paragraph")
	assert.NotContains(t, text, "footer")
}

func TestKeywordsFromText(t *testing.T) {
	got := scraper.KeywordsFromText("The Shoes and the shoes for ALL runners, go 4x4 trail-ready")
	assert.Equal(t, []string{"shoes", "runners", "trail", "ready"}, got)
}

func TestKeywordsFromTextSkipsNonASCIIWords(t *testing.T) {
	assert.Equal(t, []string{}, scraper.KeywordsFromText("Müller Bäckerei café crème résumé"))

	got := scraper.KeywordsFromText("Zürich bakery naïve bread abc123 snake_case shoes")
	assert.Equal(t, []string{"bakery", "bread", "shoes"}, got)
}

func TestKeywordsFromTextCapsAtTen(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	got := scraper.KeywordsFromText(text)
	assert.Len(t, got, 10)
	assert.Equal(t, "alpha", got[0])
	assert.Equal(t, "juliet", got[9])
}

func TestExtractSeedKeywords(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	seeds := newExtractor(t).ExtractSeedKeywords(context.Background(), srv.URL)

	assert.Equal(t, scraper.DefaultUserAgent, gotUA)
	assert.Equal(t, []string{"acme", "running", "shoes", "lightweight", "trainers", "city", "trail", "tested"}, seeds)
	for _, s := range seeds {
		assert.NotContains(t, []string{"the", "for", "and", "that", "have", "been"}, s)
	}
}

func TestPageTextMetaNameIsCaseSensitive(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head>
		<meta name="Description" content="ignored copy">
		<meta name="description" content="kept copy">
	</head></html>`))
	require.NoError(t, err)

	assert.Equal(t, "kept copy", scraper.PageText(doc))
}

func TestExtractSeedKeywordsParsesErrorPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html><head><title>Page Missing</title></head></html>`))
	}))
	defer srv.Close()

	seeds := newExtractor(t).ExtractSeedKeywords(context.Background(), srv.URL)
	assert.Equal(t, []string{"page", "missing"}, seeds)
}

func TestExtractSeedKeywordsFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	seeds := newExtractor(t).ExtractSeedKeywords(context.Background(), url)
	assert.Equal(t, scraper.FallbackSeedKeywords, seeds)

	// the returned slice must not alias the package fallback list
	seeds[0] = "changed"
	assert.Equal(t, "digital marketing", scraper.FallbackSeedKeywords[0])
}

func TestExtractSeedKeywordsFallsBackOnBadURL(t *testing.T) {
	seeds := newExtractor(t).ExtractSeedKeywords(context.Background(), "://not a url")
	assert.Equal(t, scraper.FallbackSeedKeywords, seeds)
}

func clearProxyEnv(t *testing.T) {
	for _, k := range []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy"} {
		t.Setenv(k, "")
	}
}

func TestNewHTTPClient(t *testing.T) {
	clearProxyEnv(t)

	c := scraper.NewHTTPClient(0, true, logger.NewNoOpLogger())
	require.NotNil(t, c)
	assert.Equal(t, scraper.DefaultTimeout, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.DialTLSContext)

	plain := scraper.NewHTTPClient(0, false, logger.NewNoOpLogger()).Transport.(*http.Transport)
	assert.Nil(t, plain.DialTLSContext)
}

func TestNewHTTPClientBehindProxyUsesStandardTLS(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("HTTPS_PROXY", "http://127.0.0.1:3128")

	tr := scraper.NewHTTPClient(0, true, loggertest.New(t)).Transport.(*http.Transport)
	assert.Nil(t, tr.DialTLSContext)

	req := httptest.NewRequest(http.MethodGet, "https://brand.test/", nil)
	proxyURL, err := tr.Proxy(req)
	require.NoError(t, err)
	require.NotNil(t, proxyURL)
	assert.Equal(t, "127.0.0.1:3128", proxyURL.Host)
}
