package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const samplePage = `<!DOCTYPE html><html><body>
<div id="charges-summary" class="card" style="background-color: #1f2937; color: #9ca3af">
  <h6 style="color: white">All Charges Summary</h6>
  <button class="export-button">Export PDF</button>
  <span class="MuiButton-root">Export</span>
  <div role="button">Click</div>
  <div data-testid="download-button">Download</div>
  <svg width="10" height="10"><circle r="4"></circle></svg>
  <canvas></canvas>
  <div class="am5-chart">chart</div>
  <iframe src="x"></iframe>
  <p class="MuiTypography-body2" style="color: rgb(209, 213, 219); font-size: 8px">Balance Forward $10.00</p>
  <p class="MuiTypography-caption" style="font-style: italic">Text: note</p>
  <hr>
  <!-- comment -->
</div>
<div id="other">other section</div>
</body></html>`

func parsePage(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestNewSnapshot(t *testing.T) {
	// Given
	page := parsePage(t, samplePage)

	// When
	snap, err := NewSnapshot(page, "charges-summary", DefaultLetterhead())
	require.NoError(t, err)
	defer snap.Release()

	markup, err := snap.HTML()
	require.NoError(t, err)

	// Then
	assert.Contains(t, markup, "All Charges Summary")
	assert.Contains(t, markup, "Balance Forward $10.00")
	assert.Contains(t, markup, "SHILAT LLC")
	assert.Contains(t, markup, "21 GRASSMERE ST")
	assert.Contains(t, markup, "LKWD, NJ 08701")
	assert.Contains(t, markup, `src="/shilat_logo.png"`)
	assert.Contains(t, markup, "width: 595px")

	for _, gone := range []string{"<button", "Export PDF", "MuiButton", "Click", "Download", "<svg", "<canvas", "am5-chart", "<iframe", "comment", "other section"} {
		assert.NotContains(t, markup, gone)
	}

	assert.Less(t, strings.Index(markup, "SHILAT LLC"), strings.Index(markup, "All Charges Summary"))
}

func TestNewSnapshot_PrintStyles(t *testing.T) {
	page := parsePage(t, samplePage)

	snap, err := NewSnapshot(page, "charges-summary", DefaultLetterhead())
	require.NoError(t, err)
	defer snap.Release()

	root := FindByID(snap.root, "charges-summary")
	require.NotNil(t, root)
	rootStyle := parseStyle(getAttr(root, "style"))
	assert.Equal(t, "#ffffff", rootStyle.get("background-color"))
	assert.Equal(t, "#000000", rootStyle.get("color"))

	var body, caption, heading, divider *html.Node
	walkElements(root, func(n *html.Node) {
		switch {
		case strings.Contains(getAttr(n, "class"), "MuiTypography-body2"):
			body = n
		case strings.Contains(getAttr(n, "class"), "MuiTypography-caption"):
			caption = n
		case n.Data == "h6":
			heading = n
		case n.Data == "hr":
			divider = n
		}
	})
	require.NotNil(t, body)
	require.NotNil(t, caption)
	require.NotNil(t, heading)
	require.NotNil(t, divider)

	bodyStyle := parseStyle(getAttr(body, "style"))
	assert.Equal(t, "#374151", bodyStyle.get("color"))
	assert.Equal(t, "11px", bodyStyle.get("font-size"))
	assert.Equal(t, "transparent", bodyStyle.get("background-color"))

	assert.Equal(t, "#6b7280", parseStyle(getAttr(caption, "style")).get("color"))
	assert.Equal(t, "#111827", parseStyle(getAttr(heading, "style")).get("color"))
	assert.Equal(t, "#e5e7eb", parseStyle(getAttr(divider, "style")).get("background-color"))
}

func TestNewSnapshot_DoesNotTouchPage(t *testing.T) {
	page := parsePage(t, samplePage)
	var before strings.Builder
	require.NoError(t, html.Render(&before, page))

	snap, err := NewSnapshot(page, "charges-summary", DefaultLetterhead())
	require.NoError(t, err)
	snap.Release()

	var after strings.Builder
	require.NoError(t, html.Render(&after, page))
	assert.Equal(t, before.String(), after.String())
}

func TestNewSnapshot_TargetNotFound(t *testing.T) {
	_, err := NewSnapshot(parsePage(t, samplePage), "missing", DefaultLetterhead())
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = NewSnapshot(nil, "charges-summary", DefaultLetterhead())
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestNewSnapshot_LogoFallback(t *testing.T) {
	lh := DefaultLetterhead()
	lh.LogoURL = ""

	snap, err := NewSnapshot(parsePage(t, samplePage), "other", lh)
	require.NoError(t, err)
	defer snap.Release()

	markup, err := snap.HTML()
	require.NoError(t, err)
	assert.NotContains(t, markup, "<img")
	assert.Equal(t, 2, strings.Count(markup, "SHILAT LLC"))
}

func TestExportSnapshot_Release(t *testing.T) {
	snap, err := NewSnapshot(parsePage(t, samplePage), "other", DefaultLetterhead())
	require.NoError(t, err)

	snap.Release()
	snap.Release()

	assert.True(t, snap.Released())
	_, err = snap.HTML()
	assert.ErrorIs(t, err, ErrSnapshotReleased)
}

func TestParseStyle(t *testing.T) {
	st := parseStyle(" color: red ; background-image: url(http://x/y.png);; bogus ;FONT-SIZE: 8px")

	assert.Equal(t, "red", st.get("color"))
	assert.Equal(t, "url(http://x/y.png)", st.get("background-image"))
	assert.Equal(t, "8px", st.get("font-size"))

	st.del("color")
	assert.Equal(t, "background-image: url(http://x/y.png); font-size: 8px", st.String())
}
