package facility

// Stats holds summary counts for a facility subset.
type Stats struct {
	Total           int `json:"total"`
	Operational     int `json:"operational"`
	FullyAccessible int `json:"fully_accessible"`
	Parks           int `json:"parks"`
}

// Summarize derives summary counts from the records in a single pass.
func Summarize(records []Facility) Stats {
	s := Stats{Total: len(records)}
	for _, f := range records {
		if f.Status == StatusOperational {
			s.Operational++
		}
		if f.Accessibility == AccessFull {
			s.FullyAccessible++
		}
		if f.LocationType == TypePark {
			s.Parks++
		}
	}
	return s
}
