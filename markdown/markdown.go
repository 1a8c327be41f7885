// Package markdown converts model output written in markdown into HTML for
// consumers that render a flat HTML string rather than structured markup.
package markdown

import (
	"strings"

	"github.com/russross/blackfriday/v2"
)

// Convert renders markdown as HTML. Newlines in the rendered output are
// replaced with explicit <br> tags, matching how streamed deltas are broken
// (see llm.LineBreak), so block boundaries survive in raw-text renderers.
func Convert(md string) string {
	html := blackfriday.Run([]byte(md))
	return strings.ReplaceAll(strings.TrimRight(string(html), "\n"), "\n", "<br>")
}
