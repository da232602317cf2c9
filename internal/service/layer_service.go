package service

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/repository"
)

// LayerService handles imported GeoJSON layers
type LayerService struct {
	ws   *Workspace
	repo repository.LayerRepository
}

// NewLayerService creates a new layer service
func NewLayerService(ws *Workspace, repo repository.LayerRepository) *LayerService {
	return &LayerService{ws: ws, repo: repo}
}

// ImportRequest describes a layer to import
type ImportRequest struct {
	Name    string
	GeoJSON []byte
	Visible bool
	Style   models.LayerStyle
}

// ParseFeatures accepts a FeatureCollection, a single Feature or a bare
// geometry and returns a collection
func ParseFeatures(data []byte) (*geojson.FeatureCollection, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		return fc, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Type == "Feature" {
		fc := geojson.NewFeatureCollection()
		return fc.Append(f), nil
	}
	if g, err := geojson.UnmarshalGeometry(data); err == nil && g.Geometry() != nil {
		fc := geojson.NewFeatureCollection()
		return fc.Append(geojson.NewFeature(g.Geometry())), nil
	}
	return nil, fmt.Errorf("%w: expected a FeatureCollection, Feature or geometry", ErrInvalidGeoJSON)
}

// Import parses and stores a layer. The layer gets a new UUID.
func (s *LayerService) Import(ctx context.Context, req ImportRequest) (models.LayerSummary, error) {
	fc, err := ParseFeatures(req.GeoJSON)
	if err != nil {
		return models.LayerSummary{}, err
	}

	var out models.LayerSummary
	err = s.ws.Do(func(sess *engine.Session) error {
		l, err := sess.AddLayer(models.ExternalLayer{
			Name:     req.Name,
			Features: fc,
			Visible:  req.Visible,
			Style:    req.Style,
		})
		if err != nil {
			return err
		}
		if err := s.repo.Save(ctx, &l); err != nil {
			sess.RemoveLayer(l.ID)
			return err
		}
		log.Debug().
			Str("id", l.ID).
			Int("features", l.FeatureCount()).
			Strs("tags", l.Tags.Strings()).
			Msg("Layer imported")
		out = l.Summary()
		return nil
	})
	return out, err
}

// List returns summaries of all layers in import order
func (s *LayerService) List() []models.LayerSummary {
	var out []models.LayerSummary
	s.ws.Do(func(sess *engine.Session) error {
		layers := sess.Layers()
		out = make([]models.LayerSummary, len(layers))
		for i := range layers {
			out[i] = layers[i].Summary()
		}
		return nil
	})
	return out
}

// Get returns a layer with its features
func (s *LayerService) Get(id string) (models.ExternalLayer, error) {
	var out models.ExternalLayer
	err := s.ws.Do(func(sess *engine.Session) error {
		l, ok := sess.Layer(id)
		if !ok {
			return fmt.Errorf("%w: %s", engine.ErrLayerNotFound, id)
		}
		out = l
		return nil
	})
	return out, err
}

// SetVisible shows or hides a layer
func (s *LayerService) SetVisible(ctx context.Context, id string, visible bool) (models.LayerSummary, error) {
	return s.modify(ctx, id, func(sess *engine.Session) (models.ExternalLayer, error) {
		return sess.SetLayerVisible(id, visible)
	})
}

// SetStyle replaces the rendering flags of a layer
func (s *LayerService) SetStyle(ctx context.Context, id string, style models.LayerStyle) (models.LayerSummary, error) {
	return s.modify(ctx, id, func(sess *engine.Session) (models.ExternalLayer, error) {
		return sess.SetLayerStyle(id, style)
	})
}

func (s *LayerService) modify(ctx context.Context, id string, fn func(*engine.Session) (models.ExternalLayer, error)) (models.LayerSummary, error) {
	var out models.LayerSummary
	err := s.ws.Do(func(sess *engine.Session) error {
		prev, ok := sess.Layer(id)
		if !ok {
			return fmt.Errorf("%w: %s", engine.ErrLayerNotFound, id)
		}
		l, err := fn(sess)
		if err != nil {
			return err
		}
		if err := s.repo.Save(ctx, &l); err != nil {
			sess.SetLayerVisible(id, prev.Visible)
			sess.SetLayerStyle(id, prev.Style)
			return err
		}
		log.Debug().Str("id", id).Bool("visible", l.Visible).Msg("Layer updated")
		out = l.Summary()
		return nil
	})
	return out, err
}

// Delete removes a layer
func (s *LayerService) Delete(ctx context.Context, id string) error {
	return s.ws.Do(func(sess *engine.Session) error {
		if _, ok := sess.Layer(id); !ok {
			return fmt.Errorf("%w: %s", engine.ErrLayerNotFound, id)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if err := sess.RemoveLayer(id); err != nil {
			return err
		}
		log.Debug().Str("id", id).Msg("Layer deleted")
		return nil
	})
}
