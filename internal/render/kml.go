package render

import (
	"bytes"
	"encoding/xml"
	"html"
	"strconv"
	"strings"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

const kmlSchemaID = "restaurant_schema"

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Schema      kmlSchema      `xml:"Schema"`
	Placemarks  []kmlPlacemark `xml:"Placemark"`
}

type kmlSchema struct {
	ID     string           `xml:"id,attr"`
	Fields []kmlSimpleField `xml:"SimpleField"`
}

type kmlSimpleField struct {
	Type        string `xml:"type,attr"`
	Name        string `xml:"name,attr"`
	DisplayName string `xml:"displayName"`
}

type kmlPlacemark struct {
	Name         string          `xml:"name"`
	Description  kmlCDATA        `xml:"description"`
	ExtendedData kmlExtendedData `xml:"ExtendedData"`
	Point        kmlPoint        `xml:"Point"`
}

type kmlCDATA struct {
	Text string `xml:",cdata"`
}

type kmlExtendedData struct {
	SchemaData kmlSchemaData `xml:"SchemaData"`
}

type kmlSchemaData struct {
	SchemaURL string          `xml:"schemaUrl,attr"`
	Fields    []kmlSimpleData `xml:"SimpleData"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// KML renders a document for import into Google My Maps. Category and
// Address are exposed as schema fields so My Maps can style by column.
func KML(title string, restaurants []domain.Restaurant) ([]byte, error) {
	doc := kmlRoot{
		Xmlns: "http://www.opengis.net/kml/2.2",
		Document: kmlDocument{
			Name:        title,
			Description: "Auto-generated from Google Sheets",
			Schema: kmlSchema{
				ID: kmlSchemaID,
				Fields: []kmlSimpleField{
					{Type: "string", Name: "Category", DisplayName: "Category"},
					{Type: "string", Name: "Address", DisplayName: "Address"},
				},
			},
			Placemarks: make([]kmlPlacemark, 0, len(restaurants)),
		},
	}

	for _, r := range restaurants {
		doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
			Name:        r.Name,
			Description: kmlCDATA{Text: kmlDescription(r)},
			ExtendedData: kmlExtendedData{SchemaData: kmlSchemaData{
				SchemaURL: "#" + kmlSchemaID,
				Fields: []kmlSimpleData{
					{Name: "Category", Value: domain.LookupCategory(r.Category).Label},
					{Name: "Address", Value: r.Address},
				},
			}},
			Point: kmlPoint{Coordinates: formatDegrees(r.Lng) + "," + formatDegrees(r.Lat) + ",0"},
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// kmlDescription falls back to the name so the description column is never empty.
func kmlDescription(r domain.Restaurant) string {
	var parts []string
	if r.Summary != "" {
		parts = append(parts, html.EscapeString(r.Summary))
	}
	if r.PhotoURL != "" {
		parts = append(parts, `<img src="`+html.EscapeString(r.PhotoURL)+`" width="300" />`)
	}
	if len(parts) == 0 {
		return html.EscapeString(r.Name)
	}
	return strings.Join(parts, "<br/>")
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
