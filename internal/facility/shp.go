package facility

import (
	"math"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Shapefile attribute names mapped onto facility fields. Matching is
// case-insensitive because DBF headers are commonly upper-cased.
var shpFields = []string{
	"NAME", "OPERATOR", "STATUS", "ACCESS", "LOCTYPE",
	"HOURS", "RTYPE", "CHANGING", "WEBSITE", "NOTES", "ID",
}

// LoadShapefile reads facility records from a point shapefile. Non-point
// shapes are skipped; missing attributes come through as empty strings.
func LoadShapefile(path string) ([]Facility, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "facility: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	idx := make(map[string]int, len(shpFields))
	for _, name := range shpFields {
		idx[name] = fieldIndex(reader, name)
	}

	attr := func(name string) string {
		i, ok := idx[name]
		if !ok || i < 0 {
			return ""
		}
		return strings.TrimSpace(reader.Attribute(i))
	}

	var records []Facility
	skipped := 0
	for reader.Next() {
		_, shape := reader.Shape()

		f := Facility{
			ID:               attr("ID"),
			Name:             attr("NAME"),
			Operator:         attr("OPERATOR"),
			Status:           attr("STATUS"),
			Accessibility:    attr("ACCESS"),
			LocationType:     attr("LOCTYPE"),
			HoursOfOperation: attr("HOURS"),
			RestroomType:     attr("RTYPE"),
			ChangingStations: attr("CHANGING"),
			Website:          attr("WEBSITE"),
			Notes:            attr("NOTES"),
			Lng:              math.NaN(),
			Lat:              math.NaN(),
		}

		if pt, ok := shape.(*shp.Point); ok {
			f.Lng, f.Lat = pt.X, pt.Y
		} else {
			skipped++
		}

		records = append(records, f)
	}

	if skipped > 0 {
		zap.L().Warn("facility: non-point shapes retained without coordinates",
			zap.String("path", path),
			zap.Int("count", skipped),
		)
	}

	return records, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
