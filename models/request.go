package models

// ScrapeRequest is the payload for POST /. It arrives either as JSON or as
// an application/x-www-form-urlencoded body.
type ScrapeRequest struct {
	// URL is the recipe page to scrape. Required.
	URL string `json:"url" form:"url"`
}
