package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"regexp"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

//go:embed templates/index.html.tmpl
var indexTemplate string

var pageTemplate = template.Must(template.New("index").Parse(indexTemplate))

// markersRe locates the embedded marker list in a rendered page.
var markersRe = regexp.MustCompile(`(?s)const RESTAURANTS = (.*?);\n`)

type pageData struct {
	Title       string
	LegendTitle string
	CenterLat   float64
	CenterLng   float64
	Zoom        int
	Markers     []domain.Restaurant
	Categories  []legendEntry
}

// legendEntry is the category config embedded in the page. It is a list, not
// an object, so legend order is fixed.
type legendEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// HTML renders the map page. The output depends only on its input, so the
// same restaurants always yield the same bytes.
func (r *Renderer) HTML(restaurants []domain.Restaurant) ([]byte, error) {
	markers := make([]domain.Restaurant, 0, len(restaurants))
	counts := make(map[string]int, len(domain.Categories))
	for _, rest := range restaurants {
		rest.Category = domain.LookupCategory(rest.Category).Key
		counts[rest.Category]++
		markers = append(markers, rest)
	}

	entries := make([]legendEntry, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		entries = append(entries, legendEntry{
			Key:   c.Key,
			Label: c.Label,
			Color: c.Color,
			Icon:  c.Icon,
			Count: counts[c.Key],
		})
	}

	data := pageData{
		Title:       r.opts.Title,
		LegendTitle: r.opts.LegendTitle,
		CenterLat:   r.opts.Center[0],
		CenterLng:   r.opts.Center[1],
		Zoom:        r.opts.Zoom,
		Markers:     markers,
		Categories:  entries,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractMarkers returns the marker list embedded in a page produced by HTML.
func ExtractMarkers(page []byte) ([]domain.Restaurant, error) {
	m := markersRe.FindSubmatch(page)
	if m == nil {
		return nil, errors.New("no marker list found")
	}
	var markers []domain.Restaurant
	if err := json.Unmarshal(m[1], &markers); err != nil {
		return nil, fmt.Errorf("decode marker list: %w", err)
	}
	return markers, nil
}
