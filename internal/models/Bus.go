package models

type Bus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NumberPlate string `json:"numberplate"`
}
