package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/visreg"
	"github.com/fwojciec/visreg/compare"
	vrhtml "github.com/fwojciec/visreg/html"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	fallback := c.Fallback
	if fallback == "" {
		fallback = SiteRoot(c.Target)
	}

	cfg := compare.Config{
		SourceSite:       c.Source,
		TargetSite:       c.Target,
		SourceSitemapURL: SitemapURL(c.Source, c.SitemapPath),
		TargetSitemapURL: SitemapURL(c.Target, c.SitemapPath),
		FallbackURL:      fallback,
	}

	result, err := deps.Runner.Run(deps.Ctx, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", visreg.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Compared %d pages: %d captures, %d failed\n",
		result.Pages, result.Captured, result.Failed)
	fmt.Fprintf(deps.Stdout, "Report: %s\n", filepath.Join(c.ReportDir, vrhtml.ReportFilename))

	return nil
}

// SitemapURL joins a site base URL with a sitemap path.
func SitemapURL(site, path string) string {
	return strings.TrimRight(site, "/") + "/" + strings.TrimLeft(path, "/")
}

// SiteRoot returns the root page URL of a site.
func SiteRoot(site string) string {
	return strings.TrimRight(site, "/") + "/"
}
