package routebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farelink_admin/internal/models"
)

func TestStationsModified(t *testing.T) {
	snapshot := stations("HARARE", "BULAWAYO", "GWERU")

	tests := []struct {
		name    string
		current []models.Station
		want    bool
	}{
		{"identical", stations("HARARE", "BULAWAYO", "GWERU"), false},
		{"ids ignored", []models.Station{{ID: "x", Name: "HARARE"}, {ID: "y", Name: "BULAWAYO"}, {ID: "z", Name: "GWERU"}}, false},
		{"added", stations("HARARE", "BULAWAYO", "GWERU", "KWEKWE"), true},
		{"removed", stations("HARARE", "BULAWAYO"), true},
		{"renamed", stations("HARARE", "BULAWAYO", "KWEKWE"), true},
		{"reordered", stations("HARARE", "GWERU", "BULAWAYO"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StationsModified(snapshot, tt.current))
		})
	}
}

func TestReconcileKeepsExistingFares(t *testing.T) {
	existing := []models.SubRoute{{Code: "HARGWE-001", From: "HARARE", To: "GWERU", Fare: "5.00", KidsFare: "2.50"}}

	out := Reconcile(existing, stations("HARARE", "BULAWAYO", "GWERU"))
	require.Len(t, out, 3)

	assert.Equal(t, existing[0], out[0])
	assert.False(t, out[0].IsNew)

	assert.Equal(t, "HARARE", out[1].From)
	assert.Equal(t, "BULAWAYO", out[1].To)
	assert.True(t, out[1].IsNew)
	assert.Equal(t, "GWERU", out[2].From)
	assert.Equal(t, "BULAWAYO", out[2].To)
	assert.True(t, out[2].IsNew)
}

func TestNewSubRoutesDirectionMatters(t *testing.T) {
	existing := []models.SubRoute{{From: "B", To: "A", Fare: "1.00"}}
	candidates := []models.SubRoute{{From: "A", To: "B"}}

	out := NewSubRoutes(existing, candidates)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsNew)
}

func TestNewSubRoutesCaseSensitive(t *testing.T) {
	existing := []models.SubRoute{{From: "Harare", To: "Gweru"}}
	candidates := []models.SubRoute{{From: "HARARE", To: "GWERU"}}
	assert.Len(t, NewSubRoutes(existing, candidates), 1)
}

func TestReconcileKeepsLegsOfRemovedStations(t *testing.T) {
	existing := []models.SubRoute{
		{From: "HARARE", To: "GWERU", Fare: "5.00", KidsFare: "2.00"},
		{From: "HARARE", To: "BULAWAYO", Fare: "9.00", KidsFare: "4.00"},
		{From: "GWERU", To: "BULAWAYO", Fare: "4.00", KidsFare: "2.00"},
	}

	out := Reconcile(existing, stations("HARARE", "BULAWAYO"))
	assert.Equal(t, existing, out)
}
