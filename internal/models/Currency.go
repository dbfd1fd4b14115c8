package models

// Currency as configured for a company.
// IsDefault drives fare display and IsBase is the FX reference; they normally coincide
// but are independent flags.
type Currency struct {
	Code      string  `json:"code"`
	Symbol    string  `json:"symbol"`
	Rate      float64 `json:"rate"`
	IsDefault bool    `json:"isDefault"`
	IsBase    bool    `json:"isBase"`
}
