package routebuilder

import "farelink_admin/internal/models"

// StationsModified compares the station list against the snapshot taken when editing began.
// Only count and names by position matter; ids are ignored.
func StationsModified(snapshot, current []models.Station) bool {
	if len(snapshot) != len(current) {
		return true
	}
	for i := range snapshot {
		if snapshot[i].Name != current[i].Name {
			return true
		}
	}
	return false
}

// NewSubRoutes returns the candidates with no existing leg in the same direction.
func NewSubRoutes(existing, candidates []models.SubRoute) []models.SubRoute {
	covered := make(map[[2]string]struct{}, len(existing))
	for _, e := range existing {
		covered[[2]string{e.From, e.To}] = struct{}{}
	}

	out := make([]models.SubRoute, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := covered[[2]string{c.From, c.To}]; ok {
			continue
		}
		c.IsNew = true
		out = append(out, c)
	}
	return out
}

// Reconcile lists the persisted legs, untouched, followed by legs the current stations
// add. Persisted legs whose stations were removed are kept.
func Reconcile(existing []models.SubRoute, stations []models.Station) []models.SubRoute {
	out := make([]models.SubRoute, 0, len(existing))
	for _, e := range existing {
		e.IsNew = false
		out = append(out, e)
	}
	return append(out, NewSubRoutes(existing, DeriveSubRoutes(stations))...)
}
