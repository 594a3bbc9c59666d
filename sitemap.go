package visreg

import "context"

// SitemapService retrieves page URLs from a site's XML sitemap.
type SitemapService interface {
	// FetchURLs downloads the sitemap at sitemapURL and returns the text
	// content of every <loc> element in document order.
	//
	// Returns EUNAVAILABLE if the sitemap cannot be fetched, cannot be
	// parsed, or contains no URLs. A sitemap with zero URLs is as useless
	// to the comparison as an unreachable one, so both degrade the same
	// way and callers decide how to recover.
	FetchURLs(ctx context.Context, sitemapURL string) ([]string, error)
}
