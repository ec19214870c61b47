// Package sources resolves the tool's two static inputs to local files,
// downloading and caching them when no explicit path is given.
package sources

const (
	// Bilateral migrant stock, long format: origin,destination,year,count.
	MigrantStockURL = "https://map.kmcd.dev/data/migration/migrant-stock-bilateral.csv"

	// Natural Earth 1:110m admin-0 countries, GeoJSON export.
	WorldGeoJSONURL = "https://map.kmcd.dev/data/geometry/ne_110m_admin_0_countries.geo.json"
)
