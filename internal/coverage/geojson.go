package coverage

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection encodes the grid as one point feature per cell, carrying
// the intensity for heat-layer display. Feature order follows cell order.
func (g *Grid) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(g.Cells))}
	for _, c := range g.Cells {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{c.Lng, c.Lat}),
			Properties: map[string]interface{}{
				"intensity": c.Intensity,
			},
		})
	}
	return fc
}
