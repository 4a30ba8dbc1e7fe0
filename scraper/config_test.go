package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewListConfig verifies list config creation with defaults
func TestNewListConfig(t *testing.T) {
	config := NewListConfig()

	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, StrategyMarker, config.Strategy)
	assert.Equal(t, "news.jsf", config.Marker)
	assert.Empty(t, config.ContainerClass)
	assert.NoError(t, config.Validate())
}

// TestListConfig_Validate verifies each strategy's requirements
func TestListConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ListConfig
		wantErr bool
	}{
		{"marker ok", ListConfig{BaseURL: "https://e.com/", Strategy: StrategyMarker, Marker: "item"}, false},
		{"marker missing", ListConfig{BaseURL: "https://e.com/", Strategy: StrategyMarker}, true},
		{"container ok", ListConfig{BaseURL: "https://e.com/", Strategy: StrategyContainer, ContainerClass: "news"}, false},
		{"container missing", ListConfig{BaseURL: "https://e.com/", Strategy: StrategyContainer}, true},
		{"feed needs nothing else", ListConfig{BaseURL: "https://e.com/", Strategy: StrategyFeed}, false},
		{"unknown strategy", ListConfig{BaseURL: "https://e.com/", Strategy: "xpath"}, true},
		{"no base url", ListConfig{Strategy: StrategyFeed}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNewArticleConfig verifies the default container classes
func TestNewArticleConfig(t *testing.T) {
	config := NewArticleConfig()

	assert.Equal(t, "news-detail-title", config.TitleClass)
	assert.Equal(t, "news-detail-summary", config.SummaryClass)
	assert.Equal(t, "news-detail-body", config.BodyClass)
}
