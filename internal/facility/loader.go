package facility

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Property keys recognized in the source feature collection.
const (
	propName             = "name"
	propOperator         = "operator"
	propStatus           = "status"
	propAccessibility    = "accessibility"
	propLocationType     = "location_type"
	propHoursOfOperation = "hours_of_operation"
	propRestroomType     = "restroom_type"
	propChangingStations = "changing_stations"
	propWebsite          = "website"
	propNotes            = "notes"
	propID               = "id"
)

// Load reads the facility dataset from a file path or an http(s) URL.
func Load(ctx context.Context, client *http.Client, source string) ([]Facility, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadURL(ctx, client, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, eris.Wrapf(err, "facility: open %s", source)
	}
	defer f.Close() //nolint:errcheck

	return LoadGeoJSON(f)
}

func loadURL(ctx context.Context, client *http.Client, url string) ([]Facility, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "facility: build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "facility: fetch dataset")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("facility: dataset fetch returned status %d", resp.StatusCode)
	}

	return LoadGeoJSON(resp.Body)
}

// LoadGeoJSON parses a GeoJSON FeatureCollection into facility records.
// Features without a usable point geometry are kept with NaN coordinates so
// they still show up in listings; they are excluded from spatial queries by
// Facility.HasLocation.
func LoadGeoJSON(r io.Reader) ([]Facility, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "facility: read dataset")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "facility: parse feature collection")
	}

	records := make([]Facility, 0, len(fc.Features))
	skippedGeometry := 0
	for _, feat := range fc.Features {
		if feat == nil {
			continue
		}
		f := fromProperties(feat.Properties)
		if f.ID == "" {
			f.ID = feat.ID
		}

		f.Lng, f.Lat = math.NaN(), math.NaN()
		if pt, ok := feat.Geometry.(*geom.Point); ok && pt.Stride() >= 2 {
			f.Lng, f.Lat = pt.X(), pt.Y()
		} else {
			skippedGeometry++
		}

		records = append(records, f)
	}

	if skippedGeometry > 0 {
		zap.L().Warn("facility: records without point geometry retained for listing only",
			zap.Int("count", skippedGeometry),
		)
	}

	return records, nil
}

func fromProperties(props map[string]interface{}) Facility {
	return Facility{
		ID:               propString(props, propID),
		Name:             propString(props, propName),
		Operator:         propString(props, propOperator),
		Status:           propString(props, propStatus),
		Accessibility:    propString(props, propAccessibility),
		LocationType:     propString(props, propLocationType),
		HoursOfOperation: propString(props, propHoursOfOperation),
		RestroomType:     propString(props, propRestroomType),
		ChangingStations: propString(props, propChangingStations),
		Website:          propString(props, propWebsite),
		Notes:            propString(props, propNotes),
	}
}

// propString pulls a property as a string, tolerating absent or non-string
// values (numeric ids appear in some exports).
func propString(props map[string]interface{}, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// FeatureCollection encodes records as a GeoJSON feature collection for the
// map renderer. Records without coordinates get a null geometry.
func FeatureCollection(records []Facility) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for _, f := range records {
		feat := &geojson.Feature{
			ID: f.ID,
			Properties: map[string]interface{}{
				propName:          f.Name,
				propStatus:        f.Status,
				propAccessibility: f.Accessibility,
				propLocationType:  f.LocationType,
				"status_category": StatusCategory(f.Status),
			},
		}
		if f.Operator != "" {
			feat.Properties[propOperator] = f.Operator
		}
		if f.HoursOfOperation != "" {
			feat.Properties[propHoursOfOperation] = f.HoursOfOperation
		}
		if f.RestroomType != "" {
			feat.Properties[propRestroomType] = f.RestroomType
		}
		if f.ChangingStations != "" {
			feat.Properties[propChangingStations] = f.ChangingStations
		}
		if f.Website != "" {
			feat.Properties[propWebsite] = f.Website
		}
		if f.Notes != "" {
			feat.Properties[propNotes] = f.Notes
		}
		if f.HasLocation() {
			feat.Geometry = geom.NewPointFlat(geom.XY, []float64{f.Lng, f.Lat})
		}
		fc.Features = append(fc.Features, feat)
	}
	return fc
}
