package farelink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"farelink_admin/internal/models"
)

// RoutePayload is the body of a route create or update.
type RoutePayload struct {
	BusIDs         []string          `json:"bus_ids"`
	Departure      string            `json:"departure"`
	Destination    string            `json:"destination"`
	CurrencySymbol string            `json:"currency_symbol"`
	CurrencyCode   string            `json:"currency_code"`
	Stations       []models.Station  `json:"stations"`
	SubRoutes      []SubRoutePayload `json:"subroutes"`
}

// SubRoutePayload is a leg as the API stores it, without the isNew marker.
type SubRoutePayload struct {
	Code     string `json:"subrouteid"`
	From     string `json:"from"`
	To       string `json:"to"`
	Fare     string `json:"fare"`
	KidsFare string `json:"kidsFare"`
}

// flexString accepts a JSON string or number. null decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type busWire struct {
	ID          flexString `json:"id"`
	MongoID     flexString `json:"_id"`
	BusID       flexString `json:"bus_id"`
	Name        string     `json:"name"`
	NumberPlate string     `json:"numberplate"`
}

func (b busWire) toModel() models.Bus {
	id := b.ID
	if id == "" {
		id = b.MongoID
	}
	if id == "" {
		id = b.BusID
	}
	return models.Bus{ID: string(id), Name: b.Name, NumberPlate: b.NumberPlate}
}

// stationWire accepts either a station object or a bare name.
type stationWire struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
	Lat  *float64   `json:"lat"`
	Lng  *float64   `json:"lng"`
}

func (s *stationWire) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	type alias stationWire
	return json.Unmarshal(data, (*alias)(s))
}

type subRouteWire struct {
	Code      string     `json:"subrouteid"`
	CodeSnake string     `json:"subroute_id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Fare      flexString `json:"fare"`
	KidsFare  flexString `json:"kidsFare"`
	KidsSnake flexString `json:"kids_fare"`
}

// routeWire covers the shapes the API returns for a route: "bus" as a single object or
// "buses" as a list, ids as strings or numbers, from/to or departure/destination.
type routeWire struct {
	RouteID        flexString     `json:"route_id"`
	ID             flexString     `json:"id"`
	From           string         `json:"from"`
	To             string         `json:"to"`
	Departure      string         `json:"departure"`
	Destination    string         `json:"destination"`
	Stations       []stationWire  `json:"stations"`
	SubRoutes      []subRouteWire `json:"subroutes"`
	Bus            *busWire       `json:"bus"`
	Buses          []busWire      `json:"buses"`
	BusIDs         []flexString   `json:"bus_ids"`
	CurrencyCode   string         `json:"currency_code"`
	CurrencySymbol string         `json:"currency_symbol"`
}

func (w routeWire) toModel() models.Route {
	route := models.Route{
		ID:             string(w.RouteID),
		Departure:      strings.ToUpper(strings.TrimSpace(firstNonEmpty(w.From, w.Departure))),
		Destination:    strings.ToUpper(strings.TrimSpace(firstNonEmpty(w.To, w.Destination))),
		Stations:       make([]models.Station, 0, len(w.Stations)),
		SubRoutes:      make([]models.SubRoute, 0, len(w.SubRoutes)),
		BusIDs:         []string{},
		BusNames:       []string{},
		BusPlates:      []string{},
		CurrencyCode:   w.CurrencyCode,
		CurrencySymbol: w.CurrencySymbol,
	}
	if route.ID == "" {
		route.ID = string(w.ID)
	}

	buses := w.Buses
	if len(buses) == 0 && w.Bus != nil {
		buses = []busWire{*w.Bus}
	}
	for _, b := range buses {
		bus := b.toModel()
		route.BusIDs = append(route.BusIDs, bus.ID)
		route.BusNames = append(route.BusNames, bus.Name)
		route.BusPlates = append(route.BusPlates, bus.NumberPlate)
	}
	// Bare ids only when no bus objects came back
	if len(buses) == 0 {
		for _, id := range w.BusIDs {
			route.BusIDs = append(route.BusIDs, string(id))
			route.BusNames = append(route.BusNames, "")
			route.BusPlates = append(route.BusPlates, "")
		}
	}

	for i, s := range w.Stations {
		id := string(s.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%d", route.ID, i)
		}
		route.Stations = append(route.Stations, models.Station{
			ID:   id,
			Name: strings.ToUpper(strings.TrimSpace(s.Name)),
			Lat:  s.Lat,
			Lng:  s.Lng,
		})
	}

	for _, s := range w.SubRoutes {
		kids := s.KidsFare
		if kids == "" {
			kids = s.KidsSnake
		}
		route.SubRoutes = append(route.SubRoutes, models.SubRoute{
			Code:     firstNonEmpty(s.Code, s.CodeSnake),
			From:     strings.ToUpper(strings.TrimSpace(s.From)),
			To:       strings.ToUpper(strings.TrimSpace(s.To)),
			Fare:     normalizeFare(string(s.Fare)),
			KidsFare: normalizeFare(string(kids)),
		})
	}
	return route
}

// decodeRoute reads a create/update response, bare or wrapped in {"route": ...}.
func decodeRoute(raw json.RawMessage) (models.Route, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.Route{}, nil
	}
	var wrapped struct {
		Route *routeWire `json:"route"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return models.Route{}, fmt.Errorf("farelink api: decode route: %w", err)
	}
	if wrapped.Route != nil {
		return wrapped.Route.toModel(), nil
	}
	var bare routeWire
	if err := json.Unmarshal(raw, &bare); err != nil {
		return models.Route{}, fmt.Errorf("farelink api: decode route: %w", err)
	}
	return bare.toModel(), nil
}

func normalizeFare(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return models.DefaultFare
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		logrus.WithField("fare", v).Warn("farelink api returned an invalid fare, using 0.00")
		return models.DefaultFare
	}
	return d.StringFixed(2)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
