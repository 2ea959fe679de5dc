package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/use-agent/recipe-scraper/models"
)

// Scraper turns a recipe URL into a record.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*models.Recipe, error)
}

// Scrape returns a handler for POST / and POST /api/scrape.
//
// The body is read as JSON {"url": "..."} and, when that fails, as a
// form-encoded url=... body.
func Scrape(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		req, err := bindScrapeRequest(c)
		if err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, "Request body could not be read", err))
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			respondError(c, models.NewScrapeError(models.ErrCodeMissingInput, "URL parameter is required", nil))
			return
		}

		slog.Info("scraping recipe", "url", req.URL)
		rec, err := sc.Scrape(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}

		slog.Info("recipe scraped",
			"url", req.URL,
			"title", rec.Title,
			"ingredients", len(rec.Ingredients),
			"steps", len(rec.Instructions),
			"duration", time.Since(start),
		)
		c.JSON(http.StatusOK, rec)
	}
}

func bindScrapeRequest(c *gin.Context) (models.ScrapeRequest, error) {
	var req models.ScrapeRequest

	body, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := binding.JSON.BindBody(body, &req); err == nil {
		return req, nil
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		// Neither JSON nor a form: treat as a request without a URL.
		return models.ScrapeRequest{}, nil
	}
	return models.ScrapeRequest{URL: values.Get("url")}, nil
}

// respondError maps an error to its HTTP status and writes the error
// envelope. The cause is logged, never returned.
func respondError(c *gin.Context, err error) {
	se := models.AsScrapeError(err)
	status := mapErrorToStatus(se)

	if status >= http.StatusInternalServerError {
		slog.Error("scrape failed", "code", se.Code, "path", c.Request.URL.Path, "error", err)
	} else {
		slog.Warn("scrape rejected", "code", se.Code, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, se.ToResponse())
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeMissingInput,
		models.ErrCodeInvalidInput,
		models.ErrCodeUnsupportedSite,
		models.ErrCodeValidation:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed // 405
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
