package html_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/visreg"
	visreghtml "github.com/fwojciec/visreg/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestWriter_WriteReport(t *testing.T) {
	t.Parallel()

	t.Run("one page block per entry in order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := visreghtml.NewWriter(dir)

		entries := []*visreg.Entry{
			{Slug: "home", Path: "/", SourceImage: "home/source.png", TargetFailed: true},
			{Slug: "about", Path: "/about", SourceImage: "about/source.png", TargetImage: "about/target.png"},
			{Slug: "contact", Path: "/contact", TargetImage: "contact/target.png", SourceFailed: true},
		}

		require.NoError(t, w.WriteReport(context.Background(), entries))

		doc := parseReport(t, filepath.Join(dir, visreghtml.ReportFilename))

		blocks := findAll(doc, isPageBlock)
		require.Len(t, blocks, 3)

		headings := textsOf(doc, "h2")
		assert.Equal(t, []string{"/", "/about", "/contact"}, headings)

		// Each block carries exactly one item per side: an image or a
		// missing marker.
		for i, block := range blocks {
			imgs := findAll(block, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "img" })
			missing := findAll(block, isMissingMarker)
			assert.Equal(t, 2, len(imgs)+len(missing), "block %d", i)
		}

		// Side placement: first block lost the target, last lost the source.
		assert.Equal(t, []string{"home/source.png"}, imgSrcs(blocks[0]))
		assert.Equal(t, []string{"about/source.png", "about/target.png"}, imgSrcs(blocks[1]))
		assert.Equal(t, []string{"contact/target.png"}, imgSrcs(blocks[2]))
	})

	t.Run("pass fail checkboxes per page", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := visreghtml.NewWriter(dir)
		entries := []*visreg.Entry{
			{Slug: "home", Path: "/", SourceImage: "home/source.png", TargetImage: "home/target.png"},
		}
		require.NoError(t, w.WriteReport(context.Background(), entries))

		doc := parseReport(t, w.Path())
		boxes := findAll(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "input" && attr(n, "type") == "checkbox"
		})
		assert.Len(t, boxes, 2)
	})

	t.Run("identical hint only when flagged", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := visreghtml.NewWriter(dir)
		entries := []*visreg.Entry{
			{Slug: "a", Path: "/a", SourceImage: "a/source.png", TargetImage: "a/target.png", Identical: true},
			{Slug: "b", Path: "/b", SourceImage: "b/source.png", TargetImage: "b/target.png"},
		}
		require.NoError(t, w.WriteReport(context.Background(), entries))

		doc := parseReport(t, w.Path())
		hints := findAll(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "p" && attr(n, "class") == "identical"
		})
		assert.Len(t, hints, 1)
	})

	t.Run("empty entry list still writes a valid document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := visreghtml.NewWriter(dir)
		require.NoError(t, w.WriteReport(context.Background(), nil))

		doc := parseReport(t, w.Path())
		assert.Len(t, textsOf(doc, "h1"), 1)
		assert.Empty(t, findAll(doc, isPageBlock))
	})

	t.Run("escapes markup in paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := visreghtml.NewWriter(dir)
		entries := []*visreg.Entry{
			{Slug: "x", Path: "/<script>alert(1)</script>", SourceFailed: true, TargetFailed: true},
		}
		require.NoError(t, w.WriteReport(context.Background(), entries))

		raw, err := os.ReadFile(w.Path())
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "<script>alert")
	})

	t.Run("invalid entry is rejected", func(t *testing.T) {
		t.Parallel()

		w := visreghtml.NewWriter(t.TempDir())
		err := w.WriteReport(context.Background(), []*visreg.Entry{{Slug: "x"}})

		require.Error(t, err)
		assert.Equal(t, visreg.EINVALID, visreg.ErrorCode(err))
	})

	t.Run("missing directory write fails", func(t *testing.T) {
		t.Parallel()

		w := visreghtml.NewWriter(filepath.Join(t.TempDir(), "does", "not", "exist"))
		err := w.WriteReport(context.Background(), nil)
		assert.Error(t, err)
	})
}

func parseReport(t *testing.T, path string) *html.Node {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := html.Parse(f)
	require.NoError(t, err, "report must be parseable HTML")
	return doc
}

func isPageBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "div" && attr(n, "class") == "page"
}

func isMissingMarker(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "p" && attr(n, "class") == "missing"
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func imgSrcs(n *html.Node) []string {
	var srcs []string
	for _, img := range findAll(n, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "img" }) {
		srcs = append(srcs, attr(img, "src"))
	}
	return srcs
}

func textsOf(n *html.Node, tag string) []string {
	var texts []string
	for _, el := range findAll(n, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }) {
		var b strings.Builder
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		texts = append(texts, strings.TrimSpace(b.String()))
	}
	return texts
}
