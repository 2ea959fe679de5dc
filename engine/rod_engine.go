package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// RodConfig controls the headless browser behind RodEngine.
type RodConfig struct {
	Headless             bool
	NoSandbox            bool
	Bin                  string
	Proxy                string
	MaxPages             int
	BlockedResourceTypes []string
}

// RodEngine renders pages in headless Chromium. The browser is launched on
// the first Fetch, so processes that never escalate never start Chrome.
// It is safe for concurrent use.
type RodEngine struct {
	cfg RodConfig

	mu      sync.Mutex
	browser *rod.Browser
	pool    rod.Pool[rod.Page]
}

// NewRodEngine creates a RodEngine. Nothing is launched until Fetch.
func NewRodEngine(cfg RodConfig) *RodEngine {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 4
	}
	return &RodEngine{cfg: cfg}
}

func (e *RodEngine) Name() string { return "rod" }

// ensureBrowser launches and connects the browser once.
func (e *RodEngine) ensureBrowser() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		return e.browser, nil
	}

	l := launcher.New().
		Headless(e.cfg.Headless).
		NoSandbox(e.cfg.NoSandbox)
	if e.cfg.Bin != "" {
		l = l.Bin(e.cfg.Bin)
	}
	if e.cfg.Proxy != "" {
		l = l.Proxy(e.cfg.Proxy)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("rod_engine: launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("rod_engine: connect browser: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL, "maxPages", e.cfg.MaxPages)

	e.browser = browser
	e.pool = rod.NewPagePool(e.cfg.MaxPages)
	return browser, nil
}

// Fetch navigates a pooled page to req.URL and returns the rendered HTML.
func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	browser, err := e.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := e.pool.Get(func() (*rod.Page, error) {
		return browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, fmt.Errorf("rod_engine: acquire page: %w", err)
	}
	// about:blank on the original page reference so cleanup works after ctx expiry.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("rod_engine: failed to reset page", "error", navErr)
		}
		e.pool.Put(page)
	}()

	// Stealth and hijacking only apply to navigations started after them.
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("rod_engine: stealth injection failed", "error", evalErr)
	}
	setExtraHeaders(page, req)
	if router := setupHijack(page, e.cfg.BlockedResourceTypes); router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("rod_engine: navigate: %w", err)
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("rod_engine: DOM did not settle, using current DOM", "url", req.URL, "error", err)
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("rod_engine: read HTML: %w", err)
	}

	statusCode := 0
	if res, evalErr := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); evalErr == nil {
		statusCode = res.Value.Int()
	}
	if statusCode >= 400 {
		return nil, &StatusError{StatusCode: statusCode, URL: req.URL}
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &FetchResult{
		HTML:       rawHTML,
		StatusCode: statusCode,
		FinalURL:   finalURL,
		EngineName: e.Name(),
	}, nil
}

// Close drains the page pool and kills the browser process, if one was launched.
func (e *RodEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser == nil {
		return
	}
	slog.Info("rod_engine shutting down: draining page pool")
	e.pool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := e.browser.Close(); err != nil {
		slog.Warn("rod_engine: close browser", "error", err)
	}
	e.browser = nil
}

// setExtraHeaders sends caller headers plus a search-engine Referer, which
// several recipe sites require before serving the full page.
func setExtraHeaders(page *rod.Page, req *FetchRequest) {
	headers := proto.NetworkHeaders{}
	if u, err := url.Parse(req.URL); err == nil {
		headers["Referer"] = gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()))
	}
	for k, v := range req.Headers {
		headers[k] = gson.New(v)
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(page)
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}
