// Package render turns article bodies into display blocks, HTML and excerpts.
//
// Bodies use a small markup: paragraphs are separated by blank lines, a
// paragraph starting with "## " is a heading, a paragraph wholly wrapped in
// "**" is a subheading, a paragraph starting with "- " is a list with one item
// per line, and "**text**" inside a regular paragraph is bold.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Excerpt widths used by the article card and the admin list
const (
	CardExcerptWidth  = 150
	AdminExcerptWidth = 100
)

// BlockKind identifies how a block is displayed
type BlockKind string

const (
	KindHeading    BlockKind = "heading"
	KindSubheading BlockKind = "subheading"
	KindList       BlockKind = "list"
	KindParagraph  BlockKind = "paragraph"
)

// Span is a run of paragraph text
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is one display unit of an article body
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
	Spans []Span    `json:"spans,omitempty"`
}

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Blocks parses a body into display blocks. Blank paragraphs are dropped.
func Blocks(body string) []Block {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	blocks := make([]Block, 0)
	for _, paragraph := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		blocks = append(blocks, parseBlock(paragraph))
	}
	return blocks
}

func parseBlock(paragraph string) Block {
	switch {
	case strings.HasPrefix(paragraph, "## "):
		return Block{Kind: KindHeading, Text: strings.Replace(paragraph, "## ", "", 1)}

	case len(paragraph) >= 4 && strings.HasPrefix(paragraph, "**") && strings.HasSuffix(paragraph, "**"):
		return Block{Kind: KindSubheading, Text: strings.ReplaceAll(paragraph, "**", "")}

	case strings.HasPrefix(paragraph, "- "):
		lines := strings.Split(paragraph, "\n")
		items := make([]string, 0, len(lines))
		for _, line := range lines {
			items = append(items, strings.Replace(line, "- ", "", 1))
		}
		return Block{Kind: KindList, Items: items}
	}

	return Block{Kind: KindParagraph, Spans: spans(paragraph)}
}

func spans(paragraph string) []Span {
	var out []Span
	last := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(paragraph, -1) {
		if m[0] > last {
			out = append(out, Span{Text: paragraph[last:m[0]]})
		}
		out = append(out, Span{Text: paragraph[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(paragraph) {
		out = append(out, Span{Text: paragraph[last:]})
	}
	return out
}

// HTML renders a body as escaped HTML
func HTML(body string) string {
	var b strings.Builder
	for _, block := range Blocks(body) {
		switch block.Kind {
		case KindHeading:
			b.WriteString("<h2>" + html.EscapeString(block.Text) + "</h2>\n")
		case KindSubheading:
			b.WriteString("<h3>" + html.EscapeString(block.Text) + "</h3>\n")
		case KindList:
			b.WriteString("<ul>")
			for _, item := range block.Items {
				b.WriteString("<li>" + html.EscapeString(item) + "</li>")
			}
			b.WriteString("</ul>\n")
		default:
			b.WriteString("<p>")
			for _, span := range block.Spans {
				if span.Bold {
					b.WriteString("<strong>" + html.EscapeString(span.Text) + "</strong>")
				} else {
					b.WriteString(html.EscapeString(span.Text))
				}
			}
			b.WriteString("</p>\n")
		}
	}
	return b.String()
}

// Excerpt cuts body to width display columns and appends "..." when anything was cut
func Excerpt(body string, width int) string {
	if runewidth.StringWidth(body) <= width {
		return body
	}
	return runewidth.Truncate(body, width, "") + "..."
}
