package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/engine"
	"github.com/use-agent/recipe-scraper/models"
)

const recipePage = `<html><head><title>Soup</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Soup",
 "recipeIngredient":["water","salt"],"recipeInstructions":"Boil water.\nAdd salt."}
</script></head><body><p>A soup.</p></body></html>`

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/soup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(recipePage))
	})
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><p>Just a post about soup.</p></article></body></html>`))
	})
	mux.HandleFunc("/menu.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestScraper(timeout time.Duration) *Scraper {
	return NewWithEngines(timeout, engine.NewHTTPEngine("recipe-test", 0))
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, code, se.Code)
}

func TestScrapeMe_Success(t *testing.T) {
	srv := newSiteServer(t)
	s := newTestScraper(5 * time.Second)

	r, err := s.ScrapeMe(context.Background(), srv.URL+"/soup")
	require.NoError(t, err)

	title, err := r.Title()
	require.NoError(t, err)
	assert.Equal(t, "Soup", title)

	ingredients, _ := r.Ingredients()
	assert.Equal(t, []string{"water", "salt"}, ingredients)
}

func TestScrapeMe_ErrorClassification(t *testing.T) {
	srv := newSiteServer(t)

	tests := []struct {
		name    string
		path    string
		timeout time.Duration
		code    string
	}{
		{"http 404", "/missing", 5 * time.Second, models.ErrCodeFetchFailure},
		{"no recipe markup", "/blog", 5 * time.Second, models.ErrCodeUnsupportedSite},
		{"not html", "/menu.pdf", 5 * time.Second, models.ErrCodeUnsupportedSite},
		{"timeout", "/slow", 50 * time.Millisecond, models.ErrCodeFetchFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScraper(tt.timeout)
			_, err := s.ScrapeMe(context.Background(), srv.URL+tt.path)
			requireCode(t, err, tt.code)
		})
	}
}

func TestScrapeMe_Unreachable(t *testing.T) {
	s := newTestScraper(2 * time.Second)
	_, err := s.ScrapeMe(context.Background(), "http://127.0.0.1:1/recipe")
	requireCode(t, err, models.ErrCodeFetchFailure)
}

func TestScrapeHTML(t *testing.T) {
	s := newTestScraper(time.Second)

	r, err := s.ScrapeHTML("https://example.com/soup", recipePage)
	require.NoError(t, err)
	raw, err := r.Instructions()
	require.NoError(t, err)
	assert.Equal(t, "Boil water.\nAdd salt.", raw)

	_, err = s.ScrapeHTML("https://example.com/post", "<p>nothing</p>")
	requireCode(t, err, models.ErrCodeUnsupportedSite)
}

func TestNew_BrowserDisabled(t *testing.T) {
	s := New(config.FetchConfig{Timeout: time.Second}, config.BrowserConfig{Enabled: false})
	assert.False(t, s.BrowserEnabled())
	s.Close()
}

func TestNew_SendsAcceptLanguage(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(recipePage))
	}))
	defer srv.Close()

	s := New(config.FetchConfig{Timeout: 5 * time.Second, UserAgent: "recipe-test", AcceptLanguage: "fr-FR,fr;q=0.8"}, config.BrowserConfig{})
	defer s.Close()

	_, err := s.ScrapeMe(context.Background(), srv.URL+"/soupe")
	require.NoError(t, err)
	assert.Equal(t, "fr-FR,fr;q=0.8", got)
}
