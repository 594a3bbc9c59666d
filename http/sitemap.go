// Package http provides an HTTP-based implementation of
// visreg.SitemapService for retrieving sitemap documents.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/visreg"
)

// DefaultFetchTimeout is the default timeout for sitemap requests.
const DefaultFetchTimeout = 15 * time.Second

// NewClient returns an HTTP client suitable for fetching sitemaps from
// staging environments: TLS certificate verification is disabled because
// staging hosts routinely carry self-signed or expired certificates, and
// the request is bounded by the given timeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // staging certs
		},
	}
}

// Ensure SitemapService implements visreg.SitemapService.
var _ visreg.SitemapService = (*SitemapService)(nil)

// SitemapService retrieves page URLs from XML sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP
// client. If client is nil, a default client with TLS verification
// disabled is used (see NewClient).
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = NewClient(DefaultFetchTimeout)
	}
	return &SitemapService{client: client}
}

// FetchURLs downloads the sitemap and returns the text content of every
// <loc> element in document order. Nested <loc> elements anywhere in the
// document are collected, so both <urlset> and <sitemapindex> documents
// yield their locations.
func (s *SitemapService) FetchURLs(ctx context.Context, sitemapURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "fetching sitemap %s: %v", sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "fetching sitemap %s: HTTP %d", sitemapURL, resp.StatusCode)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "parsing sitemap %s: %v", sitemapURL, err)
	}

	var urls []string
	for _, loc := range doc.FindElements("//loc") {
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}

	if len(urls) == 0 {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "sitemap %s contained no URLs", sitemapURL)
	}

	return urls, nil
}
