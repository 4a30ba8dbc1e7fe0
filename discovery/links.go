package discovery

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newswatch"
	"github.com/pevans/newswatch/scraper"
)

// ExtractLinks returns the canonical identifiers of the items listed in a
// listing page. An empty set means nothing matched, which is a valid outcome.
// Each href is resolved against config.BaseURL before inclusion. References
// that cannot be resolved are skipped.
func ExtractLinks(page []byte, config scraper.ListConfig) (*newswatch.Set, error) {
	base, err := newswatch.ParseBase(config.BaseURL)
	if err != nil {
		return nil, err
	}

	if config.Strategy == scraper.StrategyFeed {
		return extractFeedLinks(page, base)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var hrefs []string
	switch config.Strategy {
	case scraper.StrategyMarker:
		hrefs = markerHrefs(doc, config.Marker)
	case scraper.StrategyContainer:
		hrefs = containerHrefs(doc, config.ContainerClass)
	default:
		return nil, fmt.Errorf("unknown listing strategy %q", config.Strategy)
	}

	links := newswatch.NewSet()
	for _, href := range hrefs {
		id, err := newswatch.Resolve(base, href)
		if err != nil {
			continue
		}
		links.Add(id)
	}

	return links, nil
}

// markerHrefs collects every anchor href containing marker.
func markerHrefs(doc *goquery.Document, marker string) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.Contains(href, marker) {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// containerHrefs takes one href per element carrying class: the element's
// own when it is an anchor, otherwise its first descendant anchor's.
func containerHrefs(doc *goquery.Document, class string) []string {
	var hrefs []string
	doc.Find(ClassSelector(class)).Each(func(_ int, s *goquery.Selection) {
		anchor := s
		if goquery.NodeName(s) != "a" {
			anchor = s.Find("a[href]").First()
		}
		if href, ok := anchor.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// ClassSelector turns a class attribute value ("news item") into a CSS
// selector matching elements with all of those classes (".news.item").
func ClassSelector(class string) string {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return "." + strings.Join(fields, ".")
}
