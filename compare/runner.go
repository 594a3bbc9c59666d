package compare

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/visreg"
	"golang.org/x/sync/errgroup"
)

// Image filenames within each page's slug directory.
const (
	SourceImageName = "source.png"
	TargetImageName = "target.png"
)

// Runner orchestrates a visual comparison run. All captures share one
// Capturer (one browser session) and execute strictly sequentially; a
// single session cannot safely multiplex concurrent navigations.
type Runner struct {
	Sitemaps visreg.SitemapService
	Capturer visreg.Capturer
	Images   visreg.ImageStore
	Report   visreg.ReportWriter

	// Optional run history store. History failures never fail the run.
	Runs visreg.RunService

	// Optional politeness limiter applied before every capture.
	Limiter visreg.DomainLimiter

	// Optional logger; discards when nil.
	Logger *slog.Logger

	// Backoff schedule between capture attempts. Nil means
	// DefaultRetryDelays.
	RetryDelays []time.Duration
}

// Config identifies the two site versions to compare.
type Config struct {
	SourceSite string
	TargetSite string

	// Sitemap endpoints for each site.
	SourceSitemapURL string
	TargetSitemapURL string

	// Substituted as the sole target page when the target sitemap yields
	// no URLs, so the comparison still runs and surfaces the homepage.
	// Empty disables the fallback.
	FallbackURL string
}

// Result summarizes a run. Per-page failures are recorded in the report
// and the log; they never fail the run itself.
type Result struct {
	RunID    string
	Pages    int
	Captured int
	Failed   int
	Entries  []*visreg.Entry
}

// Run executes the pipeline: fetch both sitemaps, reconcile paths,
// capture each side of every page, and write the report. The only
// errors returned are context cancellation and invalid configuration;
// everything else degrades to a gap in the report.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	logger := r.logger()

	sourceURLs, targetURLs := r.fetchSitemaps(ctx, cfg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(targetURLs) == 0 && cfg.FallbackURL != "" {
		logger.Warn("no target sitemap found, using homepage fallback", "url", cfg.FallbackURL)
		targetURLs = []string{cfg.FallbackURL}
	}

	pages := Reconcile(sourceURLs, targetURLs)
	logger.Info("reconciled paths", "pages", len(pages),
		"source_urls", len(sourceURLs), "target_urls", len(targetURLs))

	run := r.createRun(ctx, cfg)

	result := &Result{Pages: len(pages)}
	if run != nil {
		result.RunID = run.ID
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := &visreg.Entry{
			Slug: visreg.PathSlug(page.Path),
			Path: page.Path,
		}

		logger.Info("comparing page", "path", page.Path,
			"source", orMissing(page.SourceURL), "target", orMissing(page.TargetURL))

		var sourceHash, targetHash string
		entry.SourceImage, sourceHash = r.captureSide(ctx, run, page, visreg.SideSource, entry.Slug)
		entry.TargetImage, targetHash = r.captureSide(ctx, run, page, visreg.SideTarget, entry.Slug)
		entry.SourceFailed = entry.SourceImage == ""
		entry.TargetFailed = entry.TargetImage == ""
		entry.Identical = sourceHash != "" && sourceHash == targetHash

		if entry.SourceFailed {
			result.Failed++
		} else {
			result.Captured++
		}
		if entry.TargetFailed {
			result.Failed++
		} else {
			result.Captured++
		}

		result.Entries = append(result.Entries, entry)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.Report.WriteReport(ctx, result.Entries); err != nil {
		logger.Error("writing report failed", "err", err)
	} else {
		logger.Info("report generated", "pages", len(result.Entries))
	}

	r.finishRun(ctx, run, result)

	return result, nil
}

// fetchSitemaps retrieves both URL listings concurrently. A failed or
// empty sitemap degrades to an empty listing with a warning; one site's
// fetch failure must not abort the whole run.
func (r *Runner) fetchSitemaps(ctx context.Context, cfg Config) (sourceURLs, targetURLs []string) {
	logger := r.logger()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sourceURLs = r.fetchSitemap(gctx, cfg.SourceSitemapURL)
		return nil
	})
	g.Go(func() error {
		targetURLs = r.fetchSitemap(gctx, cfg.TargetSitemapURL)
		return nil
	})
	_ = g.Wait()

	logger.Info("sitemaps fetched",
		"source", cfg.SourceSitemapURL, "source_urls", len(sourceURLs),
		"target", cfg.TargetSitemapURL, "target_urls", len(targetURLs))
	return sourceURLs, targetURLs
}

func (r *Runner) fetchSitemap(ctx context.Context, sitemapURL string) []string {
	urls, err := r.Sitemaps.FetchURLs(ctx, sitemapURL)
	if err != nil {
		r.logger().Warn("sitemap fetch failed", "url", sitemapURL, "err", err)
		return nil
	}
	return urls
}

// captureSide captures one side of a page and persists the image,
// returning the report-relative image path and the image fingerprint.
// Both are empty when the side is missing or the capture failed.
func (r *Runner) captureSide(ctx context.Context, run *visreg.Run, page Page, side, slug string) (relPath, hash string) {
	logger := r.logger()

	pageURL := page.SourceURL
	name := SourceImageName
	if side == visreg.SideTarget {
		pageURL = page.TargetURL
		name = TargetImageName
	}

	if pageURL == "" {
		logger.Warn("page missing", "path", page.Path, "side", side)
		return "", ""
	}

	r.waitForDomain(ctx, pageURL)

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	logFn := func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}

	data, err := CaptureWithRetryDelays(ctx, pageURL, r.Capturer.Capture, logFn, delays)
	if err != nil {
		logger.Error("capture failed", "url", pageURL, "side", side, "err", err)
		r.recordCapture(ctx, run, page.Path, side, false, "")
		return "", ""
	}

	relPath, err = r.Images.SaveImage(slug, name, data)
	if err != nil {
		// A write failure is not an automation fault; no retry.
		logger.Error("saving image failed", "url", pageURL, "side", side, "err", err)
		r.recordCapture(ctx, run, page.Path, side, false, "")
		return "", ""
	}

	hash = fmt.Sprintf("%016x", xxhash.Sum64(data))
	logger.Info("captured page", "url", pageURL, "side", side, "image", relPath, "bytes", len(data))
	r.recordCapture(ctx, run, page.Path, side, true, hash)
	return relPath, hash
}

func (r *Runner) waitForDomain(ctx context.Context, rawURL string) {
	if r.Limiter == nil {
		return
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	_ = r.Limiter.Wait(ctx, u.Host)
}

func (r *Runner) createRun(ctx context.Context, cfg Config) *visreg.Run {
	if r.Runs == nil {
		return nil
	}
	run := &visreg.Run{
		SourceSite: cfg.SourceSite,
		TargetSite: cfg.TargetSite,
	}
	if err := r.Runs.CreateRun(ctx, run); err != nil {
		r.logger().Warn("recording run failed", "err", err)
		return nil
	}
	return run
}

func (r *Runner) recordCapture(ctx context.Context, run *visreg.Run, path, side string, ok bool, hash string) {
	if r.Runs == nil || run == nil {
		return
	}
	rec := &visreg.CaptureRecord{
		RunID:     run.ID,
		Path:      path,
		Side:      side,
		OK:        ok,
		ImageHash: hash,
	}
	if err := r.Runs.RecordCapture(ctx, rec); err != nil {
		r.logger().Warn("recording capture failed", "path", path, "side", side, "err", err)
	}
}

func (r *Runner) finishRun(ctx context.Context, run *visreg.Run, result *Result) {
	if r.Runs == nil || run == nil {
		return
	}
	run.Pages = result.Pages
	run.Failures = result.Failed
	if err := r.Runs.FinishRun(ctx, run); err != nil {
		r.logger().Warn("finishing run failed", "err", err)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orMissing(url string) string {
	if url == "" {
		return "[missing]"
	}
	return url
}
