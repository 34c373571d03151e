package domain

// Sheet is a spreadsheet tab as exported: a header row followed by data rows.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// RawRow is one data row with its cells mapped to named fields.
// Line is the 1-based row number in the sheet (the header is line 1).
type RawRow struct {
	Line     int
	Name     string
	Location string
	Type     string
	Summary  string
	Address  string
	Photo    string
	Lat      string
	Lng      string
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Restaurant is one map marker.
type Restaurant struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Summary  string  `json:"summary"`
	Address  string  `json:"address"`
	PhotoURL string  `json:"photo_url"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`

	// GeoSource records where the coordinates came from: "sheet" or "geocoded".
	GeoSource string `json:"-"`
}

// Geo returns the restaurant's coordinates.
func (r Restaurant) Geo() Geo {
	return Geo{Lat: r.Lat, Lng: r.Lng}
}

// Artifact is one rendered output file.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}
