package newswatch

import "strings"

// Placeholders used when a detail page lacks the corresponding container.
const (
	TitleNotFound   = "title not found"
	SummaryNotFound = "summary not found"
	BodyNotFound    = "body not found"
)

// Article is the structured content of a detail page. It only lives for the
// duration of one notification and is never persisted.
type Article struct {
	Title   string
	Summary string
	// Body holds the text blocks in document order. List items are prefixed
	// with "- ".
	Body []string
}

// BodyText joins the body blocks with newlines.
func (a Article) BodyText() string {
	return strings.Join(a.Body, "\n")
}
