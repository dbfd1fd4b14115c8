package routebuilder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farelink_admin/internal/models"
)

var (
	ErrBlankStation         = errors.New("station name is required")
	ErrRouteEndsRequired    = errors.New("departure and destination are required before adding stations")
	ErrStationNotFound      = errors.New("station not found")
	ErrConfirmationRequired = errors.New("removal must be confirmed with the station name")
)

// newStationID is swapped in tests.
var newStationID = func() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// NormalizeName trims and uppercases a station, departure or destination name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// AddStation returns a copy of list with name appended.
// The first addition to an empty list seeds departure and destination ahead of the
// new station, so the result is always departure, destination, then stops in the
// order they were added.
func AddStation(list []models.Station, departure, destination, name string) ([]models.Station, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrBlankStation
	}

	out := make([]models.Station, 0, len(list)+3)
	out = append(out, list...)

	if len(list) == 0 {
		departure, destination = NormalizeName(departure), NormalizeName(destination)
		if departure == "" || destination == "" {
			return nil, ErrRouteEndsRequired
		}
		out = append(out,
			models.Station{ID: newStationID(), Name: departure},
			models.Station{ID: newStationID(), Name: destination},
		)
	}

	return append(out, models.Station{ID: newStationID(), Name: name}), nil
}

// RemoveStation returns a copy of list without the station identified by id.
// confirm must repeat the station's name; other stations keep their ids and order.
func RemoveStation(list []models.Station, id, confirm string) ([]models.Station, error) {
	idx := -1
	for i, s := range list {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrStationNotFound
	}
	if NormalizeName(confirm) != list[idx].Name {
		return nil, fmt.Errorf("%w: %q", ErrConfirmationRequired, list[idx].Name)
	}

	out := make([]models.Station, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...), nil
}

// TravelOrder puts the destination last: [S0, S2..Sn-1, S1].
// Lists shorter than two stations are returned as a copy.
func TravelOrder(list []models.Station) []models.Station {
	out := make([]models.Station, 0, len(list))
	if len(list) < 2 {
		return append(out, list...)
	}
	out = append(out, list[0])
	out = append(out, list[2:]...)
	return append(out, list[1])
}

// LocateStation returns a copy of list with coordinates set on one station.
func LocateStation(list []models.Station, id string, lat, lng float64) ([]models.Station, error) {
	out := make([]models.Station, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Lat, out[i].Lng = &lat, &lng
			return out, nil
		}
	}
	return nil, ErrStationNotFound
}
