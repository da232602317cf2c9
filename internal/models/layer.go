package models

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// LayerStyle holds the rendering flags of an imported layer
type LayerStyle struct {
	Color      string  `json:"color,omitempty"`
	Opacity    float64 `json:"opacity,omitempty"`
	ShowLabels bool    `json:"showLabels"`
	Outline    bool    `json:"outline"`
}

// ExternalLayer is an imported feature collection. Tags and FeatureTags are
// derived from feature text and must be refreshed when it changes.
type ExternalLayer struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Features    *geojson.FeatureCollection `json:"features"`
	Visible     bool                       `json:"visible"`
	Style       LayerStyle                 `json:"style"`
	Tags        tagging.TagSet             `json:"tags"`
	FeatureTags []tagging.TagSet           `json:"featureTags"`
	CreatedAt   time.Time                  `json:"createdAt"`
}

// RefreshTags rescans the feature text
func (l *ExternalLayer) RefreshTags() {
	l.Tags, l.FeatureTags = tagging.ScanFeatureCollection(l.Features)
}

// FeatureCount returns the number of features, zero for an empty layer
func (l *ExternalLayer) FeatureCount() int {
	if l.Features == nil {
		return 0
	}
	return len(l.Features.Features)
}

// LayerSummary is a layer without its features, for listings
type LayerSummary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Visible      bool           `json:"visible"`
	Style        LayerStyle     `json:"style"`
	Tags         tagging.TagSet `json:"tags"`
	FeatureCount int            `json:"featureCount"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Summary drops the features
func (l *ExternalLayer) Summary() LayerSummary {
	return LayerSummary{
		ID:           l.ID,
		Name:         l.Name,
		Visible:      l.Visible,
		Style:        l.Style,
		Tags:         l.Tags,
		FeatureCount: l.FeatureCount(),
		CreatedAt:    l.CreatedAt,
	}
}
