package models

// Route is a departure -> destination corridor served by one or more buses.
// A route owns its stations and sub-routes; buses are referenced by id only.
type Route struct {
	ID          string    `json:"id"`
	Departure   string    `json:"departure"`
	Destination string    `json:"destination"`
	Stations    []Station `json:"stations"`

	// Parallel, index-aligned
	BusIDs    []string `json:"busIds"`
	BusNames  []string `json:"busNames"`
	BusPlates []string `json:"busPlates"`

	SubRoutes      []SubRoute `json:"subroutes"`
	CurrencyCode   string     `json:"currencyCode,omitempty"`
	CurrencySymbol string     `json:"currencySymbol,omitempty"`
}
