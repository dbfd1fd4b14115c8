package routebuilder

import (
	"encoding/json"
	"errors"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"farelink_admin/internal/models"
)

var ErrNoGeometry = errors.New("at least two stations with coordinates are required")

// PathGeometry draws the stations in travel order as a WGS84 LineString.
// Stations without coordinates are skipped.
func PathGeometry(stations []models.Station) (*geom.LineString, error) {
	coords := make([]geom.Coord, 0, len(stations))
	for _, s := range TravelOrder(stations) {
		if !s.HasCoordinates() {
			continue
		}
		coords = append(coords, geom.Coord{*s.Lng, *s.Lat})
	}
	if len(coords) < 2 {
		return nil, ErrNoGeometry
	}

	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, err
	}
	return line.SetSRID(4326), nil
}

// PathGeoJSON is PathGeometry encoded as a GeoJSON geometry object.
func PathGeoJSON(stations []models.Station) (json.RawMessage, error) {
	line, err := PathGeometry(stations)
	if err != nil {
		return nil, err
	}
	b, err := gjson.Marshal(line)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
