package discovery

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newswatch"
	"github.com/pevans/newswatch/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailHTML = `
<html>
	<body>
		<div class="news-detail-title">
			Novo   comunicado
		</div>
		<div class="news-detail-summary">
			<p>First summary line.</p>
			<div>Second <b>summary</b> line.</div>
		</div>
		<div class="news-detail-body">
			<p>Leading paragraph.</p>
			<ul>
				<li>First item</li>
				<li>Second item</li>
			</ul>
			<p>Trailing paragraph.</p>
		</div>
	</body>
</html>
`

// TestExtractArticle_Complete verifies title, summary and ordered body
func TestExtractArticle_Complete(t *testing.T) {
	article := ExtractArticle([]byte(detailHTML), scraper.NewArticleConfig())

	assert.Equal(t, "Novo comunicado", article.Title)
	assert.Equal(t, "First summary line. Second summary line.", article.Summary)
	assert.Equal(t, []string{
		"Leading paragraph.",
		"- First item",
		"- Second item",
		"Trailing paragraph.",
	}, article.Body)
	assert.Equal(t, "Leading paragraph.\n- First item\n- Second item\nTrailing paragraph.", article.BodyText())
}

// TestExtractArticle_MissingBody verifies the placeholder for a missing body
func TestExtractArticle_MissingBody(t *testing.T) {
	html := `<html><body><div class="news-detail-title">Only a title</div></body></html>`

	article := ExtractArticle([]byte(html), scraper.NewArticleConfig())

	assert.Equal(t, "Only a title", article.Title)
	assert.Equal(t, newswatch.SummaryNotFound, article.Summary)
	assert.Equal(t, []string{newswatch.BodyNotFound}, article.Body)
}

// TestExtractArticle_EmptyPage verifies every placeholder on an empty page
func TestExtractArticle_EmptyPage(t *testing.T) {
	for _, page := range []string{"", "<html></html>", "not really html"} {
		article := ExtractArticle([]byte(page), scraper.NewArticleConfig())

		assert.Equal(t, newswatch.TitleNotFound, article.Title)
		assert.Equal(t, newswatch.SummaryNotFound, article.Summary)
		assert.Equal(t, []string{newswatch.BodyNotFound}, article.Body)
	}
}

// TestExtractArticle_BlankContainers verifies blank containers are treated as
// missing
func TestExtractArticle_BlankContainers(t *testing.T) {
	html := `<div class="news-detail-title">   </div><div class="news-detail-body"> <p> </p> </div>`

	article := ExtractArticle([]byte(html), scraper.NewArticleConfig())

	assert.Equal(t, newswatch.TitleNotFound, article.Title)
	assert.Equal(t, []string{newswatch.BodyNotFound}, article.Body)
}

// TestExtractArticle_SummaryWithoutBlocks verifies the plain-text fallback
func TestExtractArticle_SummaryWithoutBlocks(t *testing.T) {
	html := `<span class="news-detail-summary">  Just   text </span>`

	article := ExtractArticle([]byte(html), scraper.NewArticleConfig())

	assert.Equal(t, "Just text", article.Summary)
}

// TestExtractArticle_NestedSummaryNotDuplicated verifies only innermost
// blocks contribute
func TestExtractArticle_NestedSummaryNotDuplicated(t *testing.T) {
	html := `<div class="news-detail-summary"><div><p>Inner one.</p><p>Inner two.</p></div></div>`

	article := ExtractArticle([]byte(html), scraper.NewArticleConfig())

	assert.Equal(t, "Inner one. Inner two.", article.Summary)
}

// TestExtractArticle_CustomClasses verifies configurable container classes
func TestExtractArticle_CustomClasses(t *testing.T) {
	html := `<h1 class="headline">Custom</h1><section class="post body"><p>Text</p></section>`
	config := scraper.ArticleConfig{
		TitleClass:   "headline",
		SummaryClass: "lede",
		BodyClass:    "post body",
	}

	article := ExtractArticle([]byte(html), config)

	assert.Equal(t, "Custom", article.Title)
	assert.Equal(t, newswatch.SummaryNotFound, article.Summary)
	assert.Equal(t, []string{"Text"}, article.Body)
}

// TestOrderedText_ListsAndBlocks verifies the body walk
func TestOrderedText_ListsAndBlocks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "ordered list",
			html: `<div id="c"><div>Intro</div><ol><li>One</li><li>Two</li></ol></div>`,
			want: []string{"Intro", "- One", "- Two"},
		},
		{
			name: "nested list stays inside its item",
			html: `<div id="c"><ul><li>Parent<ul><li>Child</li></ul></li><li>Sibling</li></ul></div>`,
			want: []string{"- Parent Child", "- Sibling"},
		},
		{
			name: "bare text and comments",
			html: `<div id="c">Loose text<!-- hidden --><p>Para</p></div>`,
			want: []string{"Loose text", "Para"},
		},
		{
			name: "inline runs form one block",
			html: `<div id="c">O prazo termina a <strong>15 de março</strong>, conforme <a href="x">aviso</a>.<p>Next</p></div>`,
			want: []string{"O prazo termina a 15 de março, conforme aviso.", "Next"},
		},
		{
			name: "inline run after a block",
			html: `<div id="c"><p>First</p>Then <em>more</em> text<br>After break</div>`,
			want: []string{"First", "Then more text", "After break"},
		},
		{
			name: "nested blocks keep word boundaries",
			html: `<div id="c"><div><p>A</p><p>B</p></div></div>`,
			want: []string{"A B"},
		},
		{
			name: "scripts skipped",
			html: `<div id="c"><script>var x = 1;</script><p>Visible</p></div>`,
			want: []string{"Visible"},
		},
		{
			name: "whitespace normalized",
			html: "<div id=\"c\"><p>  many\n\t spaces  </p><ul><li>  item \n </li></ul></div>",
			want: []string{"many spaces", "- item"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			assert.Equal(t, tt.want, OrderedText(doc.Find("#c")))
		})
	}
}
