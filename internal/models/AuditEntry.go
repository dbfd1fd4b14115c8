package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditRouteCreate = "route.create"
	AuditRouteUpdate = "route.update"
	AuditRouteDelete = "route.delete"
)

// AuditEntry records one route write made through the route builder.
type AuditEntry struct {
	gorm.Model
	CompanyID   string         `json:"company_id" gorm:"index"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action" gorm:"index"`
	RouteID     string         `json:"route_id" gorm:"index"`
	Departure   string         `json:"departure"`
	Destination string         `json:"destination"`
	BusIDs      pq.StringArray `json:"bus_ids" gorm:"type:text[]"`
	LegCount    int            `json:"leg_count"`
	Outcome     string         `json:"outcome"` // "ok" or "error"
	Message     string         `json:"message"`
}
