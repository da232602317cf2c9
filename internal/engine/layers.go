package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// AddLayer stores an imported layer and computes its tags. An empty ID is
// replaced with a random UUID and a nil collection with an empty one.
func (s *Session) AddLayer(l models.ExternalLayer) (models.ExternalLayer, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else if _, ok := s.findLayer(l.ID); ok {
		return models.ExternalLayer{}, fmt.Errorf("%w: %s", ErrDuplicateLayer, l.ID)
	}
	if l.Features == nil {
		l.Features = geojson.NewFeatureCollection()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now().UTC()
	}
	l.RefreshTags()
	s.layers = append(s.layers, l)
	return l, nil
}

// RemoveLayer drops a layer
func (s *Session) RemoveLayer(id string) error {
	i, ok := s.findLayer(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	return nil
}

// SetLayerVisible shows or hides a layer
func (s *Session) SetLayerVisible(id string, visible bool) (models.ExternalLayer, error) {
	i, ok := s.findLayer(id)
	if !ok {
		return models.ExternalLayer{}, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	s.layers[i].Visible = visible
	return s.layers[i], nil
}

// SetLayerStyle replaces the rendering flags of a layer
func (s *Session) SetLayerStyle(id string, style models.LayerStyle) (models.ExternalLayer, error) {
	i, ok := s.findLayer(id)
	if !ok {
		return models.ExternalLayer{}, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	s.layers[i].Style = style
	return s.layers[i], nil
}

// Layer returns a layer by ID
func (s *Session) Layer(id string) (models.ExternalLayer, bool) {
	i, ok := s.findLayer(id)
	if !ok {
		return models.ExternalLayer{}, false
	}
	return s.layers[i], true
}

// Layers returns a copy of the layer list in import order
func (s *Session) Layers() []models.ExternalLayer {
	out := make([]models.ExternalLayer, len(s.layers))
	copy(out, s.layers)
	return out
}

func (s *Session) findLayer(id string) (int, bool) {
	for i := range s.layers {
		if s.layers[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// SetFilter selects the heatmap tag. "" and "ALL" select everything;
// anything else must be a catalog tag or an alias of one.
func (s *Session) SetFilter(filter string) (string, error) {
	f := heatmap.NormalizeFilter(filter)
	if f != heatmap.FilterAll {
		tag, ok := tagging.Lookup(f)
		if !ok {
			return s.filter, fmt.Errorf("%w: %q", ErrUnknownTag, filter)
		}
		f = string(tag)
	}
	s.filter = f
	return f, nil
}

// Filter returns the current heatmap tag
func (s *Session) Filter() string {
	return s.filter
}

// AvailableTags is the union of tags found on records and visible layers
func (s *Session) AvailableTags() tagging.TagSet {
	out := tagging.NewTagSet()
	for i := range s.records {
		out.Union(s.records[i].Tags())
	}
	for i := range s.layers {
		if s.layers[i].Visible {
			out.Union(s.layers[i].Tags)
		}
	}
	return out
}
