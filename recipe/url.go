package recipe

import (
	"net/netip"
	"net/url"
	"strings"

	"github.com/use-agent/recipe-scraper/models"
)

// CheckURL rejects URLs the scraper must not fetch: anything that is not
// absolute http(s), and, unless allowPrivate is set, loopback, private and
// link-local targets. Hostnames are not resolved.
func CheckURL(raw string, allowPrivate bool) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "Invalid URL format", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "Only HTTP and HTTPS URLs are allowed", nil)
	}
	if !allowPrivate && isPrivateHost(u.Hostname()) {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "URL targets a private or local address", nil)
	}
	return nil
}

func isPrivateHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast()
}
