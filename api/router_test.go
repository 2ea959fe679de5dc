package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/engine"
	"github.com/use-agent/recipe-scraper/models"
	"github.com/use-agent/recipe-scraper/recipe"
	"github.com/use-agent/recipe-scraper/scraper"
)

type fakeScraper struct {
	gotURL string
	rec    *models.Recipe
	err    error
	panics bool
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*models.Recipe, error) {
	f.gotURL = url
	if f.panics {
		panic("scraper exploded")
	}
	return f.rec, f.err
}

func testConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
}

func sampleRecipe() *models.Recipe {
	rec := models.NewRecipe()
	rec.Title = "Soup"
	rec.Ingredients = []string{"water"}
	rec.Instructions = []string{"Boil."}
	return rec
}

func do(r http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestInfo(t *testing.T) {
	r := NewRouter(&fakeScraper{}, testConfig(), false, time.Now())

	for _, path := range []string{"/", "/api/scrape"} {
		w := do(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assertCORS(t, w)
		body := decode(t, w)
		assert.Equal(t, "Recipe Scraper API", body["message"])
		assert.Equal(t, "running", body["status"])
		assert.Contains(t, body, "usage")
		assert.Contains(t, body, "example")
	}
}

func TestPreflight(t *testing.T) {
	r := NewRouter(&fakeScraper{}, testConfig(), false, time.Now())

	w := do(r, http.MethodOptions, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assertCORS(t, w)
}

func TestMethodNotAllowed(t *testing.T) {
	r := NewRouter(&fakeScraper{}, testConfig(), false, time.Now())

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w := do(r, method, "/", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assertCORS(t, w)
		body := decode(t, w)
		assert.Contains(t, body["error"], method)
		assert.Equal(t, models.ErrCodeMethodNotAllowed, body["code"])
	}
}

func TestScrape_MissingURL(t *testing.T) {
	sc := &fakeScraper{rec: sampleRecipe()}
	r := NewRouter(sc, testConfig(), false, time.Now())

	bodies := []struct{ contentType, body string }{
		{"application/json", `{}`},
		{"application/json", `{"url": ""}`},
		{"application/json", `{"url": "   "}`},
		{"application/json", ``},
		{"application/x-www-form-urlencoded", `name=soup`},
		{"text/plain", `%zz not a form`},
	}
	for _, b := range bodies {
		w := do(r, http.MethodPost, "/", b.contentType, b.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, b.body)
		assertCORS(t, w)
		body := decode(t, w)
		assert.Equal(t, "URL parameter is required", body["error"])
		assert.Equal(t, models.ErrCodeMissingInput, body["code"])
	}
	assert.Empty(t, sc.gotURL)
}

func TestScrape_JSONAndFormBodies(t *testing.T) {
	sc := &fakeScraper{rec: sampleRecipe()}
	r := NewRouter(sc, testConfig(), false, time.Now())

	w := do(r, http.MethodPost, "/", "application/json", `{"url": "https://example.com/soup"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/soup", sc.gotURL)
	assertCORS(t, w)
	body := decode(t, w)
	assert.Equal(t, "Soup", body["title"])
	assert.Len(t, body, 20)
	assert.Equal(t, []any{}, body["tags"])
	assert.Nil(t, body["ratings"])

	form := url.Values{"url": {"https://example.com/stew"}}.Encode()
	w = do(r, http.MethodPost, "/api/scrape", "application/x-www-form-urlencoded", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/stew", sc.gotURL)
}

func TestScrape_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid input", models.NewScrapeError(models.ErrCodeInvalidInput, "Invalid URL format", nil), http.StatusBadRequest, "Invalid URL format"},
		{"unsupported site", models.NewScrapeError(models.ErrCodeUnsupportedSite, "No recipe found", nil), http.StatusBadRequest, "No recipe found"},
		{"validation", models.NewScrapeError(models.ErrCodeValidation, "Recipe validation failed: title is missing", nil), http.StatusBadRequest, "Recipe validation failed: title is missing"},
		{"fetch failure", models.NewScrapeError(models.ErrCodeFetchFailure, "Failed to fetch recipe page", errors.New("refused")), http.StatusInternalServerError, "Failed to fetch recipe page"},
		{"unexpected", models.NewScrapeError(models.ErrCodeUnexpected, "internal detail", nil), http.StatusInternalServerError, models.MsgUnexpected},
		{"unclassified", errors.New("stack trace here"), http.StatusInternalServerError, models.MsgUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(&fakeScraper{err: tt.err}, testConfig(), false, time.Now())
			w := do(r, http.MethodPost, "/", "application/json", `{"url": "https://example.com/x"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			assertCORS(t, w)
			body := decode(t, w)
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestScrape_PanicRecovered(t *testing.T) {
	r := NewRouter(&fakeScraper{panics: true}, testConfig(), false, time.Now())

	w := do(r, http.MethodPost, "/", "application/json", `{"url": "https://example.com/x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, models.MsgUnexpected, body["error"])
	assert.NotContains(t, w.Body.String(), "exploded")
}

func TestHealth(t *testing.T) {
	r := NewRouter(&fakeScraper{}, testConfig(), true, time.Now())

	w := do(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["browser_enabled"])
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.APIKeys = []string{"secret"}
	r := NewRouter(&fakeScraper{rec: sampleRecipe()}, cfg, false, time.Now())

	w := do(r, http.MethodPost, "/", "application/json", `{"url": "https://example.com/x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeUnauthorized, decode(t, w)["code"])

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"url": "https://example.com/x"}`))
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"url": "https://example.com/x"}`))
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Info and preflight stay open.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodOptions, "/", "", "").Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	r := NewRouter(&fakeScraper{rec: sampleRecipe()}, cfg, false, time.Now())

	w := do(r, http.MethodPost, "/", "application/json", `{"url": "https://example.com/x"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/", "application/json", `{"url": "https://example.com/x"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.ErrCodeRateLimited, decode(t, w)["code"])
}

const siteRecipe = `<html lang="en"><head><title>Soup</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Tomato Soup",
 "recipeIngredient":["4 tomatoes","1 onion"],
 "recipeInstructions":"Step 1: chop the onion. Step 2: simmer everything.",
 "totalTime":"PT45M","recipeYield":"4"}
</script></head><body><p>Soup.</p></body></html>`

func newRecipeSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/soup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(siteRecipe))
	})
	mux.HandleFunc("/odd-rating", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Replace(siteRecipe, `"recipeYield":"4"`,
			`"recipeYield":"4","aggregateRating":{"ratingValue":"NaN","ratingCount":"Infinity"}`, 1)))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>About us.</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRealRouter(allowPrivate bool) *gin.Engine {
	sc := scraper.NewWithEngines(5*time.Second, engine.NewHTTPEngine("recipe-test", 0))
	adapter := recipe.NewAdapter(sc, recipe.Options{Validate: true, AllowPrivateHosts: allowPrivate})
	return NewRouter(adapter, testConfig(), false, time.Now())
}

func TestScrape_EndToEnd(t *testing.T) {
	site := newRecipeSite(t)
	r := newRealRouter(true)

	w := do(r, http.MethodPost, "/", "application/json", `{"url": "`+site.URL+`/soup"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Tomato Soup", rec.Title)
	assert.Equal(t, []string{"4 tomatoes", "1 onion"}, rec.Ingredients)
	assert.Equal(t, []string{"chop the onion.", "simmer everything."}, rec.Instructions)
	assert.Equal(t, "45", rec.TotalTime)
	assert.Equal(t, "4 servings", rec.Yields)
	assert.Equal(t, "en", rec.Language)
	assert.Equal(t, "127.0.0.1", rec.Host)
	assert.Empty(t, rec.Difficulty)

	w = do(r, http.MethodPost, "/", "application/json", `{"url": "`+site.URL+`/about"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeUnsupportedSite, decode(t, w)["code"])

	w = do(r, http.MethodPost, "/", "application/json", `{"url": "`+site.URL+`/missing"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.ErrCodeFetchFailure, decode(t, w)["code"])
}

func TestScrape_NonFiniteRatingStillEncodes(t *testing.T) {
	site := newRecipeSite(t)
	r := newRealRouter(true)

	w := do(r, http.MethodPost, "/", "application/json", `{"url": "`+site.URL+`/odd-rating"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Tomato Soup", body["title"])
	assert.Contains(t, body, "ratings")
	assert.Nil(t, body["ratings"])
	assert.Nil(t, body["reviews_count"])
}

func TestScrape_UnreachableURLNeverSucceeds(t *testing.T) {
	for _, allowPrivate := range []bool{false, true} {
		r := newRealRouter(allowPrivate)
		w := do(r, http.MethodPost, "/", "application/json", `{"url": "http://127.0.0.1:1/recipe"}`)
		assert.NotEqual(t, http.StatusOK, w.Code)
		assert.Contains(t, []int{http.StatusBadRequest, http.StatusInternalServerError}, w.Code)
		assert.Contains(t, decode(t, w), "error")
	}
}
