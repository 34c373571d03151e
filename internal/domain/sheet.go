package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoNameColumn is returned when the header row has no name column.
var ErrNoNameColumn = errors.New("sheet header has no name column")

// imageFormulaRe matches a Sheets =IMAGE("url") formula, e.g.
// `=IMAGE("https://example.com/a.jpg")` -> "https://example.com/a.jpg".
var imageFormulaRe = regexp.MustCompile(`(?i)^=\s*image\s*\(\s*"([^"]+)"`)

// columnAliases maps each RawRow field to the header names that may hold it.
var columnAliases = map[string][]string{
	"name":     {"name", "restaurant", "place"},
	"location": {"location", "city", "area"},
	"type":     {"type", "category"},
	"summary":  {"summary", "notes", "description"},
	"address":  {"address"},
	"photo":    {"picture", "photo", "image", "photo url"},
	"lat":      {"lat", "latitude"},
	"lng":      {"lng", "lon", "long", "longitude"},
}

// Columns holds the zero-based index of each known column, or -1 if absent.
type Columns struct {
	Name, Location, Type, Summary, Address, Photo, Lat, Lng int
}

// ResolveColumns locates the known columns in a header row.
// The first header matching an alias wins.
func ResolveColumns(header []string) (Columns, error) {
	index := func(field string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, alias := range columnAliases[field] {
				if h == alias {
					return i
				}
			}
		}
		return -1
	}

	cols := Columns{
		Name:     index("name"),
		Location: index("location"),
		Type:     index("type"),
		Summary:  index("summary"),
		Address:  index("address"),
		Photo:    index("photo"),
		Lat:      index("lat"),
		Lng:      index("lng"),
	}
	if cols.Name < 0 {
		return Columns{}, ErrNoNameColumn
	}
	return cols, nil
}

// ParseSheet maps every data row of a sheet into a RawRow.
// Short rows are padded with empty cells; fully blank rows are dropped.
func ParseSheet(sheet Sheet) ([]RawRow, error) {
	cols, err := ResolveColumns(sheet.Header)
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}

	rows := make([]RawRow, 0, len(sheet.Rows))
	for i, cells := range sheet.Rows {
		if isBlank(cells) {
			continue
		}
		rows = append(rows, RawRow{
			Line:     i + 2,
			Name:     cell(cells, cols.Name),
			Location: cell(cells, cols.Location),
			Type:     cell(cells, cols.Type),
			Summary:  cell(cells, cols.Summary),
			Address:  cell(cells, cols.Address),
			Photo:    cell(cells, cols.Photo),
			Lat:      cell(cells, cols.Lat),
			Lng:      cell(cells, cols.Lng),
		})
	}
	return rows, nil
}

// MatchesLocation reports whether the row's location contains filter,
// case-insensitively. An empty filter matches everything.
func (r RawRow) MatchesLocation(filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Location), strings.ToLower(filter))
}

// PhotoURL extracts an image URL from a photo cell: a plain http(s) URL or
// an =IMAGE("url") formula. Anything else yields "".
func PhotoURL(value string) string {
	value = strings.TrimSpace(value)
	if m := imageFormulaRe.FindStringSubmatch(value); len(m) == 2 {
		return m[1]
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return value
	}
	return ""
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
