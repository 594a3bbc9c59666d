// Package compare provides visual comparison orchestration. It
// coordinates sitemap discovery, page reconciliation, screenshot capture,
// and report generation for a source/target site pair.
package compare

import (
	"net/url"
	"sort"
)

// Page pairs a source and target URL that share a URL path. Either URL
// may be empty when that side's sitemap did not list the path: a page
// added or removed between the two site versions is an expected case,
// not an error.
type Page struct {
	Path      string
	SourceURL string
	TargetURL string
}

// Reconcile correlates two URL listings by URL path and returns one Page
// per path in the sorted union of both sets. Two URLs with the same path,
// differing only in scheme or host, are considered the same page.
//
// Duplicate paths within one listing are not expected but not rejected;
// the last occurrence wins.
func Reconcile(sourceURLs, targetURLs []string) []Page {
	sourceByPath := mapByPath(sourceURLs)
	targetByPath := mapByPath(targetURLs)

	paths := make([]string, 0, len(sourceByPath)+len(targetByPath))
	seen := make(map[string]bool)
	for path := range sourceByPath {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	for path := range targetByPath {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	pages := make([]Page, 0, len(paths))
	for _, path := range paths {
		pages = append(pages, Page{
			Path:      path,
			SourceURL: sourceByPath[path],
			TargetURL: targetByPath[path],
		})
	}
	return pages
}

// mapByPath keys URLs by their normalized path component, last wins.
// Unparseable URLs are skipped.
func mapByPath(urls []string) map[string]string {
	m := make(map[string]string, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		path := u.Path
		// A bare host and an explicit root are the same page; collapsing
		// them keeps slugs unique.
		if path == "" {
			path = "/"
		}
		m[path] = raw
	}
	return m
}
