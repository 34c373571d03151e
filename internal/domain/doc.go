// Package domain models the restaurant spreadsheet behind the map.
//
// # Data Source
//
// Rows come from a Google Sheet ("Full Data" tab), either through the public
// CSV export or the Sheets API v4. The first row is a header; every other row
// is one place the map may show.
//
// # Column Conventions
//
// Columns are located by header name, case-insensitively:
//
//	Name                       required, rows with an empty name are skipped
//	Location | City | Area     free text, e.g. "SAV" or "Savannah, GA"
//	Type | Category            free text, e.g. "Bar + Restaurant"
//	Summary | Notes            optional popup text
//	Address                    street address, used for geocoding
//	Picture | Photo | Image    a URL or an =IMAGE("url") formula
//	Lat | Latitude             decimal degrees
//	Lng | Lon | Longitude      decimal degrees
//
// # Marker Categories
//
// The free-text Type column is folded into four marker categories by
// [Classify]:
//
//	"Rooftop Bar"                          rooftop
//	anything containing "bar"              bar (also "Bar + Food")
//	"Restaurant", "Lunch"                  restaurant
//	everything else (Food Hall, Bakery)    other
//
// # Coordinates
//
// Sheet coordinates win. When both cells are empty the address is forward
// geocoded. Cells that are present but not numeric, or out of WGS-84 range,
// make the row invalid; such rows are never geocoded and never rendered.
package domain
