// Package scraper turns a URL into parsed recipe markup: it fetches the page
// through the engine chain and hands the HTML to the schema reader.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/engine"
	"github.com/use-agent/recipe-scraper/models"
	"github.com/use-agent/recipe-scraper/schema"
)

// Scraper fetches recipe pages and parses them. It holds no per-request
// state and is safe for concurrent use.
type Scraper struct {
	dispatcher *engine.Dispatcher
	rod        *engine.RodEngine
	timeout    time.Duration
	headers    map[string]string
}

// New builds the engine chain from config: the HTTP engine always, the
// headless browser after it when enabled.
func New(fetchCfg config.FetchConfig, browserCfg config.BrowserConfig) *Scraper {
	engines := []engine.Engine{engine.NewHTTPEngine(fetchCfg.UserAgent, fetchCfg.MaxBodyBytes)}

	var rod *engine.RodEngine
	if browserCfg.Enabled {
		rod = engine.NewRodEngine(engine.RodConfig{
			Headless:             browserCfg.Headless,
			NoSandbox:            browserCfg.NoSandbox,
			Bin:                  browserCfg.Bin,
			Proxy:                browserCfg.Proxy,
			MaxPages:             browserCfg.MaxPages,
			BlockedResourceTypes: browserCfg.BlockedResourceTypes,
		})
		engines = append(engines, rod)
	}
	slog.Info("scraper ready", "engines", len(engines), "browser", browserCfg.Enabled, "timeout", fetchCfg.Timeout)

	s := NewWithEngines(fetchCfg.Timeout, engines...)
	s.rod = rod
	if fetchCfg.AcceptLanguage != "" {
		s.headers = map[string]string{"Accept-Language": fetchCfg.AcceptLanguage}
	}
	return s
}

// NewWithEngines builds a Scraper over an explicit engine chain.
func NewWithEngines(timeout time.Duration, engines ...engine.Engine) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		dispatcher: engine.NewDispatcher(engines...),
		timeout:    timeout,
	}
}

// BrowserEnabled reports whether the headless browser is part of the chain.
func (s *Scraper) BrowserEnabled() bool {
	return s.rod != nil
}

// ScrapeMe fetches pageURL and parses its recipe markup. Errors are
// *models.ScrapeError values classified as FETCH_FAILURE, UNSUPPORTED_SITE
// or UNEXPECTED_FAILURE.
func (s *Scraper) ScrapeMe(ctx context.Context, pageURL string) (*schema.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.dispatcher.Dispatch(ctx, &engine.FetchRequest{URL: pageURL, Headers: s.headers})
	if err != nil {
		return nil, classifyFetchError(err)
	}
	slog.Debug("recipe page fetched",
		"url", pageURL,
		"final_url", res.FinalURL,
		"engine", res.EngineName,
		"status", res.StatusCode,
		"bytes", len(res.HTML),
		"elapsed", time.Since(start),
	)

	base := res.FinalURL
	if base == "" {
		base = pageURL
	}
	return s.ScrapeHTML(base, res.HTML)
}

// Lookup is ScrapeMe behind the untyped result the recipe adapter inspects.
func (s *Scraper) Lookup(ctx context.Context, pageURL string) (any, error) {
	r, err := s.ScrapeMe(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ScrapeHTML parses already-fetched HTML as if it had been served at pageURL.
func (s *Scraper) ScrapeHTML(pageURL, rawHTML string) (*schema.Recipe, error) {
	r, err := schema.Parse(pageURL, rawHTML)
	if err == nil {
		return r, nil
	}
	if errors.Is(err, schema.ErrNoRecipe) {
		return nil, models.NewScrapeError(
			models.ErrCodeUnsupportedSite,
			fmt.Sprintf("No recipe found on %s: the page has no schema.org Recipe markup", hostOf(pageURL)),
			err,
		)
	}
	return nil, models.NewScrapeError(models.ErrCodeUnexpected, models.MsgUnexpected, err)
}

// Close releases the browser, if one was launched.
func (s *Scraper) Close() {
	if s.rod != nil {
		s.rod.Close()
	}
}

func classifyFetchError(err error) error {
	var statusErr *engine.StatusError
	switch {
	case errors.As(err, &statusErr):
		return models.NewScrapeError(
			models.ErrCodeFetchFailure,
			fmt.Sprintf("Failed to fetch recipe page: target responded with HTTP %d", statusErr.StatusCode),
			err,
		)
	case errors.Is(err, engine.ErrNotHTML):
		return models.NewScrapeError(
			models.ErrCodeUnsupportedSite,
			"URL does not point to an HTML page",
			err,
		)
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(
			models.ErrCodeFetchFailure,
			"Timed out fetching recipe page",
			err,
		)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(
			models.ErrCodeFetchFailure,
			"Request cancelled while fetching recipe page",
			err,
		)
	default:
		return models.NewScrapeError(
			models.ErrCodeFetchFailure,
			"Failed to fetch recipe page",
			err,
		)
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
