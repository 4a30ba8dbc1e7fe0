package scraper

import "fmt"

// Listing strategies. StrategyMarker keeps every anchor whose href contains
// the marker substring; StrategyContainer takes the first anchor inside each
// element carrying the container class; StrategyFeed reads the listing as an
// RSS or Atom document and takes each item's link.
const (
	StrategyMarker    = "marker"
	StrategyContainer = "container"
	StrategyFeed      = "feed"
)

// Defaults for the monitored site.
const (
	DefaultBaseURL      = "https://www.pgdporto.pt/proc-web/"
	DefaultMarker       = "news.jsf"
	DefaultTitleClass   = "news-detail-title"
	DefaultSummaryClass = "news-detail-summary"
	DefaultBodyClass    = "news-detail-body"
)

// ListConfig defines how candidate item links are found on the listing page.
type ListConfig struct {
	// BaseURL is the fixed URL every href is resolved against.
	BaseURL        string `yaml:"base_url"`
	Strategy       string `yaml:"strategy"`
	Marker         string `yaml:"marker,omitempty"`
	ContainerClass string `yaml:"container_class,omitempty"`
}

// ArticleConfig names the containers holding a detail page's content.
type ArticleConfig struct {
	TitleClass   string `yaml:"title_class"`
	SummaryClass string `yaml:"summary_class"`
	BodyClass    string `yaml:"body_class"`
}

// NewListConfig creates a marker-strategy list configuration with default
// values.
func NewListConfig() ListConfig {
	return ListConfig{
		BaseURL:  DefaultBaseURL,
		Strategy: StrategyMarker,
		Marker:   DefaultMarker,
	}
}

// NewArticleConfig returns the container classes used by the monitored site.
func NewArticleConfig() ArticleConfig {
	return ArticleConfig{
		TitleClass:   DefaultTitleClass,
		SummaryClass: DefaultSummaryClass,
		BodyClass:    DefaultBodyClass,
	}
}

// Validate checks that the selected strategy has what it needs.
func (c ListConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	switch c.Strategy {
	case StrategyMarker:
		if c.Marker == "" {
			return fmt.Errorf("marker is required for the %q strategy", StrategyMarker)
		}
	case StrategyContainer:
		if c.ContainerClass == "" {
			return fmt.Errorf("container_class is required for the %q strategy", StrategyContainer)
		}
	case StrategyFeed:
	default:
		return fmt.Errorf("unknown listing strategy %q (want marker, container or feed)", c.Strategy)
	}

	return nil
}
