// Package routebuilder holds the route draft workflow: station list, sub-route derivation,
// edit reconciliation and fare entry. Every operation returns a new Draft and leaves its
// receiver untouched.
package routebuilder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farelink_admin/internal/farelink"
	"farelink_admin/internal/models"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var (
	ErrNotEnoughStations = errors.New("at least two stations are required")
	ErrSubRoutesStale    = errors.New("stations changed since sub-routes were generated")
)

// Gate problems reported by Validate.
const (
	ProblemDeparture   = "departure is required"
	ProblemDestination = "destination is required"
	ProblemBus         = "at least one bus must be assigned"
	ProblemStations    = "at least two stations are required"
)

// ValidationError lists every reason a draft cannot be submitted.
type ValidationError struct {
	Problems []string `json:"problems"`
}

func (e *ValidationError) Error() string {
	return "route draft is incomplete: " + strings.Join(e.Problems, "; ")
}

// Draft is an admin's unsaved route.
type Draft struct {
	ID          string `json:"id"`
	CompanyID   string `json:"companyId"`
	Mode        Mode   `json:"mode"`
	RouteID     string `json:"routeId,omitempty"`
	Departure   string `json:"departure"`
	Destination string `json:"destination"`

	BusIDs    []string `json:"busIds"`
	BusNames  []string `json:"busNames"`
	BusPlates []string `json:"busPlates"`

	Stations []models.Station `json:"stations"`
	Legs     []Leg            `json:"subroutes"`

	// LegsStale is set whenever stations change after legs were generated.
	LegsStale bool `json:"legsStale"`

	// Edit mode only: the station list and legs as persisted.
	Snapshot []models.Station  `json:"snapshot,omitempty"`
	Existing []models.SubRoute `json:"existing,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewDraft starts a draft for a route that does not exist yet.
func NewDraft(companyID, departure, destination string) Draft {
	return Draft{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Mode:        ModeCreate,
		Departure:   NormalizeName(departure),
		Destination: NormalizeName(destination),
		BusIDs:      []string{},
		BusNames:    []string{},
		BusPlates:   []string{},
		Stations:    []models.Station{},
		Legs:        []Leg{},
		LegsStale:   true,
		CreatedAt:   time.Now().UTC(),
	}
}

// EditDraft starts a draft from a persisted route and snapshots its stations.
func EditDraft(companyID string, route models.Route) Draft {
	existing := make([]models.SubRoute, len(route.SubRoutes))
	for i, s := range route.SubRoutes {
		s.IsNew = false
		existing[i] = s
	}

	return Draft{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Mode:        ModeEdit,
		RouteID:     route.ID,
		Departure:   NormalizeName(route.Departure),
		Destination: NormalizeName(route.Destination),
		BusIDs:      append([]string{}, route.BusIDs...),
		BusNames:    append([]string{}, route.BusNames...),
		BusPlates:   append([]string{}, route.BusPlates...),
		Stations:    append([]models.Station{}, route.Stations...),
		Snapshot:    append([]models.Station{}, route.Stations...),
		Existing:    existing,
		Legs:        toLegs(existing),
		CreatedAt:   time.Now().UTC(),
	}
}

// WithEnds sets departure and/or destination. Once stations are seeded, the first two
// stations are renamed with them and the legs go stale. A blank end leaves its station as is.
func (d Draft) WithEnds(departure, destination *string) Draft {
	if departure != nil {
		d.Departure = NormalizeName(*departure)
	}
	if destination != nil {
		d.Destination = NormalizeName(*destination)
	}
	if len(d.Stations) < 2 {
		return d
	}

	stations := append([]models.Station{}, d.Stations...)
	renamed := false
	if d.Departure != "" && stations[0].Name != d.Departure {
		stations[0].Name, renamed = d.Departure, true
	}
	if d.Destination != "" && stations[1].Name != d.Destination {
		stations[1].Name, renamed = d.Destination, true
	}
	if renamed {
		d.Stations = stations
		d.LegsStale = true
	}
	return d
}

// WithBuses replaces the assigned buses, keeping ids, names and plates index-aligned.
func (d Draft) WithBuses(buses []models.Bus) Draft {
	d.BusIDs = make([]string, len(buses))
	d.BusNames = make([]string, len(buses))
	d.BusPlates = make([]string, len(buses))
	for i, b := range buses {
		d.BusIDs[i], d.BusNames[i], d.BusPlates[i] = b.ID, b.Name, b.NumberPlate
	}
	return d
}

func (d Draft) AddStation(name string) (Draft, error) {
	stations, err := AddStation(d.Stations, d.Departure, d.Destination, name)
	if err != nil {
		return d, err
	}
	d.Stations = stations
	d.LegsStale = true
	return d, nil
}

func (d Draft) RemoveStation(id, confirm string) (Draft, error) {
	stations, err := RemoveStation(d.Stations, id, confirm)
	if err != nil {
		return d, err
	}
	d.Stations = stations
	d.LegsStale = true
	return d, nil
}

// LocateStation does not change the stations' names, so legs stay current.
func (d Draft) LocateStation(id string, lat, lng float64) (Draft, error) {
	stations, err := LocateStation(d.Stations, id, lat, lng)
	if err != nil {
		return d, err
	}
	d.Stations = stations
	return d, nil
}

// StationsModified is always true for a new route.
func (d Draft) StationsModified() bool {
	if d.Mode == ModeCreate {
		return true
	}
	return StationsModified(d.Snapshot, d.Stations)
}

// GenerateSubRoutes moves the draft to fare entry.
// A new route gets a fresh derivation. An edited route keeps its persisted legs and,
// if the stations changed, gets the uncovered legs appended.
func (d Draft) GenerateSubRoutes() (Draft, error) {
	if len(d.Stations) < 2 {
		return d, ErrNotEnoughStations
	}

	switch {
	case d.Mode == ModeCreate:
		d.Legs = toLegs(DeriveSubRoutes(d.Stations))
	case d.StationsModified():
		d.Legs = toLegs(Reconcile(d.Existing, d.Stations))
	default:
		d.Legs = toLegs(d.Existing)
	}
	d.LegsStale = false
	return d, nil
}

// NewLegs counts legs still waiting for a first price.
func (d Draft) NewLegs() int {
	n := 0
	for _, l := range d.Legs {
		if l.IsNew {
			n++
		}
	}
	return n
}

func (d Draft) SetFare(idx int, fareInput, kidsInput *string) (Draft, error) {
	legs, err := SetFare(d.Legs, idx, fareInput, kidsInput)
	if err != nil {
		return d, err
	}
	d.Legs = legs
	return d, nil
}

// Validate is the submission gate: both ends named, a bus assigned, two stations.
func (d Draft) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Departure) == "" {
		problems = append(problems, ProblemDeparture)
	}
	if strings.TrimSpace(d.Destination) == "" {
		problems = append(problems, ProblemDestination)
	}
	if len(d.BusIDs) == 0 {
		problems = append(problems, ProblemBus)
	}
	if len(d.Stations) < 2 {
		problems = append(problems, ProblemStations)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// submissionLegs picks the legs to send. An edit with unchanged stations goes out with
// its persisted legs even if they were never regenerated.
func (d Draft) submissionLegs() ([]models.SubRoute, error) {
	if !d.LegsStale {
		out := make([]models.SubRoute, len(d.Legs))
		for i, l := range d.Legs {
			out[i] = l.SubRoute
		}
		return out, nil
	}
	if d.Mode == ModeEdit && !d.StationsModified() {
		return d.Existing, nil
	}
	return nil, ErrSubRoutesStale
}

// ReadyToSubmit runs every check that needs no network call: the gate, current legs
// and well-formed fares.
func (d Draft) ReadyToSubmit() error {
	_, err := d.submission()
	return err
}

func (d Draft) submission() ([]farelink.SubRoutePayload, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	legs, err := d.submissionLegs()
	if err != nil {
		return nil, err
	}

	subs := make([]farelink.SubRoutePayload, 0, len(legs))
	for _, l := range legs {
		fare, err := FixFare(l.Fare)
		if err != nil {
			return nil, fmt.Errorf("%s -> %s fare: %w", l.From, l.To, err)
		}
		kids, err := FixFare(l.KidsFare)
		if err != nil {
			return nil, fmt.Errorf("%s -> %s kids fare: %w", l.From, l.To, err)
		}
		subs = append(subs, farelink.SubRoutePayload{
			Code:     l.Code,
			From:     l.From,
			To:       l.To,
			Fare:     fare,
			KidsFare: kids,
		})
	}
	return subs, nil
}

// BuildPayload turns a ready draft into a create/update body priced in currency.
// isNew is dropped and every fare is fixed to two decimals.
func (d Draft) BuildPayload(currency models.Currency) (farelink.RoutePayload, error) {
	subs, err := d.submission()
	if err != nil {
		return farelink.RoutePayload{}, err
	}

	return farelink.RoutePayload{
		BusIDs:         append([]string{}, d.BusIDs...),
		Departure:      d.Departure,
		Destination:    d.Destination,
		CurrencySymbol: currency.Symbol,
		CurrencyCode:   currency.Code,
		Stations:       append([]models.Station{}, d.Stations...),
		SubRoutes:      subs,
	}, nil
}
