package discovery

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/newswatch"
)

// extractFeedLinks reads an RSS or Atom listing. gofeed detects the format
// and normalizes both to item.Link.
func extractFeedLinks(page []byte, base *url.URL) (*newswatch.Set, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	links := newswatch.NewSet()
	for _, item := range feed.Items {
		href := item.Link
		if href == "" && len(item.Links) > 0 {
			href = item.Links[0]
		}
		id, err := newswatch.Resolve(base, href)
		if err != nil {
			continue
		}
		links.Add(id)
	}

	return links, nil
}
