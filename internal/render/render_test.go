package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

func testOptions() Options {
	return Options{
		Title:       "Savannah Restaurant Map",
		LegendTitle: "Savannah Eats & Drinks",
		Center:      [2]float64{32.0809, -81.0912},
		Zoom:        13,
		HTMLFile:    "index.html",
		KMLFile:     "map.kml",
	}
}

func testRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{
			Name:     "The Grey",
			Type:     "Restaurant",
			Category: domain.CategoryRestaurant,
			Summary:  "Diner turned restaurant",
			Address:  "109 Martin Luther King Jr Blvd, Savannah, GA",
			PhotoURL: "https://example.com/grey.jpg",
			Lat:      32.0813,
			Lng:      -81.0951,
		},
		{
			Name:     "Peregrin",
			Type:     "Rooftop Bar",
			Category: domain.CategoryRooftop,
			Address:  "404 E Bay St, Savannah, GA",
			Lat:      32.0814,
			Lng:      -81.0867,
		},
		{
			Name:     "Lone Wolf Lounge",
			Type:     "Bar",
			Category: domain.CategoryBar,
			Address:  "2429 Lincoln St, Savannah, GA",
			Lat:      32.0524,
			Lng:      -81.0967,
		},
	}
}

func TestRender_Artifacts(t *testing.T) {
	artifacts, err := New(testOptions()).Render(testRestaurants())
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	assert.Equal(t, "index.html", artifacts[0].Name)
	assert.Equal(t, ContentTypeHTML, artifacts[0].ContentType)
	assert.Equal(t, "map.kml", artifacts[1].Name)
	assert.Equal(t, ContentTypeKML, artifacts[1].ContentType)
}

func TestRender_KMLDisabled(t *testing.T) {
	opts := testOptions()
	opts.KMLFile = ""

	artifacts, err := New(opts).Render(testRestaurants())
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "index.html", artifacts[0].Name)
}

func TestHTML_OneMarkerPerRestaurant(t *testing.T) {
	in := testRestaurants()
	page, err := New(testOptions()).HTML(in)
	require.NoError(t, err)

	markers, err := ExtractMarkers(page)
	require.NoError(t, err)
	if diff := cmp.Diff(in, markers); diff != "" {
		t.Errorf("embedded markers mismatch (-want +got):\n%s", diff)
	}
}

func TestHTML_Bootstrap(t *testing.T) {
	page, err := New(testOptions()).HTML(testRestaurants())
	require.NoError(t, err)
	s := string(page)

	assert.Contains(t, s, "<title>Savannah Restaurant Map</title>")
	assert.Contains(t, s, "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js")
	assert.Contains(t, s, "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css")
	assert.Contains(t, s, "basemaps.cartocdn.com/rastertiles/voyager")
	assert.Contains(t, s, "32.0809")
	assert.Contains(t, s, "-81.0912")
	assert.Contains(t, s, `"key":"rooftop"`)
	assert.Contains(t, s, `"count":1`)
}

func TestHTML_CategoryOrderAndCounts(t *testing.T) {
	page, err := New(testOptions()).HTML(testRestaurants())
	require.NoError(t, err)
	s := string(page)

	restaurant := strings.Index(s, `"key":"restaurant"`)
	bar := strings.Index(s, `"key":"bar"`)
	rooftop := strings.Index(s, `"key":"rooftop"`)
	other := strings.Index(s, `"key":"other"`)
	require.True(t, restaurant >= 0 && bar >= 0 && rooftop >= 0 && other >= 0)
	assert.Less(t, restaurant, bar)
	assert.Less(t, bar, rooftop)
	assert.Less(t, rooftop, other)
}

func TestHTML_Deterministic(t *testing.T) {
	r := New(testOptions())
	first, err := r.HTML(testRestaurants())
	require.NoError(t, err)
	second, err := r.HTML(testRestaurants())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHTML_Empty(t *testing.T) {
	page, err := New(testOptions()).HTML(nil)
	require.NoError(t, err)

	markers, err := ExtractMarkers(page)
	require.NoError(t, err)
	assert.Empty(t, markers)
	assert.Contains(t, string(page), "const RESTAURANTS = [];")
}

func TestHTML_SheetTextCannotBreakOutOfScript(t *testing.T) {
	in := []domain.Restaurant{{
		Name:     `</script><script>alert(1)</script>`,
		Category: domain.CategoryOther,
		Summary:  `<img src=x onerror=alert(2)>`,
		Lat:      32.08,
		Lng:      -81.09,
	}}
	page, err := New(testOptions()).HTML(in)
	require.NoError(t, err)
	s := string(page)

	assert.NotContains(t, s, "<script>alert(1)")
	assert.NotContains(t, s, "<img src=x")

	markers, err := ExtractMarkers(page)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, in[0].Name, markers[0].Name)
}

func TestHTML_UnknownCategoryFallsBackToOther(t *testing.T) {
	in := []domain.Restaurant{{Name: "Mystery", Category: "food-truck", Lat: 32.08, Lng: -81.09}}
	page, err := New(testOptions()).HTML(in)
	require.NoError(t, err)

	markers, err := ExtractMarkers(page)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, domain.CategoryOther, markers[0].Category)
}

func TestExtractMarkers_NotAMapPage(t *testing.T) {
	_, err := ExtractMarkers([]byte("<html></html>"))
	require.Error(t, err)
}
