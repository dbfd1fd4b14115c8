package routebuilder

import (
	"fmt"
	"strings"

	"farelink_admin/internal/models"
)

// DeriveSubRoutes emits one leg for every downstream pair of stations in travel order.
// n stations yield n*(n-1)/2 legs, all new and unpriced. Fewer than two stations yield none.
//
// Codes are FROM[:3]+TO[:3]-SEQ with SEQ restarting at 001 on every call, so two
// corridors sharing prefixes can produce the same code.
func DeriveSubRoutes(stations []models.Station) []models.SubRoute {
	if len(stations) < 2 {
		return []models.SubRoute{}
	}

	ordered := TravelOrder(stations)
	legs := make([]models.SubRoute, 0, len(ordered)*(len(ordered)-1)/2)
	seq := 0
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			seq++
			from, to := ordered[i].Name, ordered[j].Name
			legs = append(legs, models.SubRoute{
				Code:     legCode(from, to, seq),
				From:     from,
				To:       to,
				Fare:     models.DefaultFare,
				KidsFare: models.DefaultFare,
				IsNew:    true,
			})
		}
	}
	return legs
}

func legCode(from, to string, seq int) string {
	return fmt.Sprintf("%s%s-%03d", prefix(from), prefix(to), seq)
}

func prefix(name string) string {
	r := []rune(strings.ToUpper(name))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
