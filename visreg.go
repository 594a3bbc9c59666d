// Package visreg provides visual regression testing between two versions
// of a website. It discovers pages from each site's XML sitemap, captures
// full-page screenshots of corresponding pages using a shared browser
// session, and renders a side-by-side HTML report for manual review.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, html/).
package visreg
