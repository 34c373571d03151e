// Package render turns restaurant records into the static artifacts that
// make up the published map: the Leaflet page and an optional KML export.
package render

import (
	"fmt"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// Content types of rendered artifacts.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeKML  = "application/vnd.google-earth.kml+xml"
)

// Options configures the rendered page.
type Options struct {
	Title       string
	LegendTitle string
	Center      [2]float64 // lat, lng
	Zoom        int

	HTMLFile string
	KMLFile  string // empty disables the KML export
}

// Renderer builds every output artifact in memory.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render returns the page and, when configured, the KML export. Nothing is
// written; publishing is the caller's job.
func (r *Renderer) Render(restaurants []domain.Restaurant) ([]domain.Artifact, error) {
	page, err := r.HTML(restaurants)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	artifacts := []domain.Artifact{{Name: r.opts.HTMLFile, ContentType: ContentTypeHTML, Body: page}}

	if r.opts.KMLFile != "" {
		kml, err := KML(r.opts.Title, restaurants)
		if err != nil {
			return nil, fmt.Errorf("render kml: %w", err)
		}
		artifacts = append(artifacts, domain.Artifact{Name: r.opts.KMLFile, ContentType: ContentTypeKML, Body: kml})
	}
	return artifacts, nil
}
