// Package recipe adapts a scraping library's page object into the
// models.Recipe record returned to callers.
package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/use-agent/recipe-scraper/models"
)

// Library is the scraping library entry point. The page it returns is only
// inspected for the accessor capabilities listed in fields.go.
type Library interface {
	Lookup(ctx context.Context, url string) (any, error)
}

// LibraryFunc adapts a function to Library.
type LibraryFunc func(ctx context.Context, url string) (any, error)

func (f LibraryFunc) Lookup(ctx context.Context, url string) (any, error) { return f(ctx, url) }

// Options controls the adapter.
type Options struct {
	// Validate rejects records without a title, ingredients or instructions.
	Validate bool

	// AllowPrivateHosts lets URLs target localhost and private networks.
	AllowPrivateHosts bool
}

// Adapter turns a URL into a recipe record. It keeps no state between
// calls and is safe for concurrent use.
type Adapter struct {
	lib  Library
	opts Options
}

// NewAdapter creates an Adapter over lib.
func NewAdapter(lib Library, opts Options) *Adapter {
	return &Adapter{lib: lib, opts: opts}
}

// Scrape fetches rawURL through the library and assembles a record. All
// errors are *models.ScrapeError.
func (a *Adapter) Scrape(ctx context.Context, rawURL string) (*models.Recipe, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, models.NewScrapeError(models.ErrCodeMissingInput, "URL parameter is required", nil)
	}
	if err := CheckURL(rawURL, a.opts.AllowPrivateHosts); err != nil {
		return nil, err
	}

	page, err := a.lookup(ctx, rawURL)
	if err != nil {
		return nil, models.AsScrapeError(err)
	}

	rec := Extract(page)
	if a.opts.Validate {
		if problems := Validate(rec); len(problems) > 0 {
			return nil, models.NewScrapeError(
				models.ErrCodeValidation,
				"Recipe validation failed: "+strings.Join(problems, "; "),
				nil,
			)
		}
	}
	return rec, nil
}

// lookup calls the library, turning a panic into an unexpected failure.
func (a *Adapter) lookup(ctx context.Context, url string) (page any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scraping library panicked",
				"url", url,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			page = nil
			err = models.NewScrapeError(models.ErrCodeUnexpected, models.MsgUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	page, err = a.lib.Lookup(ctx, url)
	if err == nil && page == nil {
		err = fmt.Errorf("library returned no page for %s", url)
	}
	return page, err
}
