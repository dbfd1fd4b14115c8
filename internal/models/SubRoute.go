package models

// DefaultFare is the value of a fare that has not been set yet.
const DefaultFare = "0.00"

// SubRoute is one directed, fare-bearing leg between two stations of a route.
type SubRoute struct {
	Code     string `json:"subrouteid"`
	From     string `json:"from"`
	To       string `json:"to"`
	Fare     string `json:"fare"`
	KidsFare string `json:"kidsFare"`

	// IsNew marks legs that still need a fare. Never sent to the FareLink API.
	IsNew bool `json:"isNew"`
}
