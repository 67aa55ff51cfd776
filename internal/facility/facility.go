// Package facility holds the in-memory facility dataset and the pure
// filtering and summary operations over it.
package facility

import "math"

// Recognized status values. Anything else renders as the unknown category
// but remains filterable by exact string.
const (
	StatusOperational    = "Operational"
	StatusNotOperational = "Not Operational"
	StatusConstruction   = "Closed for Construction"
)

// Recognized accessibility values.
const (
	AccessFull    = "Fully Accessible"
	AccessPartial = "Partially Accessible"
)

// Recognized location types.
const (
	TypePark    = "Park"
	TypeLibrary = "Library"
)

// Render categories derived from the enum-like fields.
const (
	CategoryOperational    = "operational"
	CategoryNotOperational = "not_operational"
	CategoryConstruction   = "construction"
	CategoryUnknown        = "unknown"
	CategoryGeneric        = "generic"
)

// Facility is one point-of-interest record. Records are loaded once and
// never mutated; slices of them are shared by reference across filter calls.
type Facility struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`

	// WGS84 degrees. NaN when the source record had no usable geometry;
	// such records still appear in listings but are excluded from
	// nearest-distance computation.
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`

	Status        string `json:"status,omitempty"`
	Accessibility string `json:"accessibility,omitempty"`
	LocationType  string `json:"location_type,omitempty"`

	// Opaque pass-through attributes, no validation.
	Operator         string `json:"operator,omitempty"`
	HoursOfOperation string `json:"hours_of_operation,omitempty"`
	RestroomType     string `json:"restroom_type,omitempty"`
	ChangingStations string `json:"changing_stations,omitempty"`
	Website          string `json:"website,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// HasLocation reports whether the record carries finite coordinates.
func (f Facility) HasLocation() bool {
	return !math.IsNaN(f.Lat) && !math.IsInf(f.Lat, 0) &&
		!math.IsNaN(f.Lng) && !math.IsInf(f.Lng, 0)
}

// StatusCategory maps a status string to its render category.
func StatusCategory(status string) string {
	switch status {
	case StatusOperational:
		return CategoryOperational
	case StatusNotOperational:
		return CategoryNotOperational
	case StatusConstruction:
		return CategoryConstruction
	default:
		return CategoryUnknown
	}
}

// AccessCategory maps an accessibility string to its render category.
func AccessCategory(accessibility string) string {
	switch accessibility {
	case AccessFull, AccessPartial:
		return accessibility
	default:
		return CategoryUnknown
	}
}

// TypeCategory maps a location type to its render category.
func TypeCategory(locationType string) string {
	switch locationType {
	case TypePark, TypeLibrary:
		return locationType
	default:
		return CategoryGeneric
	}
}
