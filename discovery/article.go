package discovery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newswatch"
	"github.com/pevans/newswatch/scraper"
)

// ExtractArticle pulls the title, summary and body out of a detail page.
// Missing or empty containers yield the newswatch placeholders; this never
// fails.
func ExtractArticle(page []byte, config scraper.ArticleConfig) newswatch.Article {
	article := newswatch.Article{
		Title:   newswatch.TitleNotFound,
		Summary: newswatch.SummaryNotFound,
		Body:    []string{newswatch.BodyNotFound},
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return article
	}

	if title := first(doc, config.TitleClass); title != nil {
		if text := textOf(title); text != "" {
			article.Title = text
		}
	}

	if summary := first(doc, config.SummaryClass); summary != nil {
		if text := summaryText(summary); text != "" {
			article.Summary = text
		}
	}

	if body := first(doc, config.BodyClass); body != nil {
		if blocks := OrderedText(body); len(blocks) > 0 {
			article.Body = blocks
		}
	}

	return article
}

// blockElements start a new line of text. Everything else is inline.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

// skipped never contribute text.
var skipped = map[string]bool{
	"#comment": true, "script": true, "style": true, "noscript": true,
}

// OrderedText walks the direct children of container in document order.
// Consecutive text and inline children form one block; every block element
// contributes its own. Lists contribute one "- " line per direct list item
// (nested lists stay inside their parent item's text). Empty blocks are
// dropped.
func OrderedText(container *goquery.Selection) []string {
	var (
		blocks []string
		inline strings.Builder
	)

	flush := func() {
		if text := normalize(inline.String()); text != "" {
			blocks = append(blocks, text)
		}
		inline.Reset()
	}

	container.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case skipped[name]:
			return
		case name == "ul" || name == "ol":
			flush()
			child.ChildrenFiltered("li").Each(func(_ int, item *goquery.Selection) {
				if text := textOf(item); text != "" {
					blocks = append(blocks, "- "+text)
				}
			})
		case blockElements[name]:
			flush()
			if text := textOf(child); text != "" {
				blocks = append(blocks, text)
			}
		default:
			writeText(&inline, child)
		}
	})
	flush()

	return blocks
}

// textOf returns the normalized text of sel. Block boundaries inside sel
// become spaces, so "<p>A</p><p>B</p>" reads "A B".
func textOf(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		writeText(&b, s)
	})
	return normalize(b.String())
}

// writeText appends the raw text under sel, keeping source whitespace.
func writeText(b *strings.Builder, sel *goquery.Selection) {
	name := goquery.NodeName(sel)
	switch {
	case name == "#text":
		b.WriteString(sel.Text())
		return
	case skipped[name]:
		return
	}

	block := blockElements[name]
	if block {
		b.WriteByte(' ')
	}
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		writeText(b, child)
	})
	if block {
		b.WriteByte(' ')
	}
}

// summaryText joins the innermost paragraph and div texts of the summary
// container, falling back to the container's own text when it has none.
func summaryText(summary *goquery.Selection) string {
	var parts []string
	summary.Find("p, div").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find("p, div").Length() == 0
		}).
		Each(func(_ int, s *goquery.Selection) {
			if text := textOf(s); text != "" {
				parts = append(parts, text)
			}
		})

	if len(parts) == 0 {
		return textOf(summary)
	}
	return strings.Join(parts, " ")
}

// first returns the first element with class, or nil when there is none.
func first(doc *goquery.Document, class string) *goquery.Selection {
	selector := ClassSelector(class)
	if selector == "" {
		return nil
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// normalize collapses runs of whitespace into single spaces and trims.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
