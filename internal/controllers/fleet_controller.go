package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"farelink_admin/internal/audit"
	"farelink_admin/internal/farelink"
	"farelink_admin/internal/middleware"
	"farelink_admin/internal/models"
)

var errConfirmDelete = errors.New("route deletion must be confirmed with confirm=true")

// FleetController proxies the FareLink listings the route screens need, plus route deletion.
type FleetController struct {
	api   *farelink.Client
	audit audit.Logger
}

func NewFleetController(api *farelink.Client, auditLog audit.Logger) *FleetController {
	return &FleetController{api: api, audit: auditLog}
}

func (fc *FleetController) clientFor(c *gin.Context) *farelink.Client {
	return fc.api.WithToken(c.GetString(middleware.KeyToken))
}

func (fc *FleetController) ListBuses(c *gin.Context) {
	buses, err := fc.clientFor(c).ListBuses(c.Request.Context())
	if err != nil {
		respondError(c, "list buses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// ListCurrencies also names the default and base currencies.
func (fc *FleetController) ListCurrencies(c *gin.Context) {
	currencies, err := fc.clientFor(c).ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, "list currencies", err)
		return
	}

	body := gin.H{"currencies": currencies, "default": nil, "base": nil}
	if cur, err := farelink.DefaultCurrency(currencies); err == nil {
		body["default"] = cur.Code
	}
	if cur, err := farelink.BaseCurrency(currencies); err == nil {
		body["base"] = cur.Code
	}
	c.JSON(http.StatusOK, body)
}

func (fc *FleetController) ListRoutes(c *gin.Context) {
	routes, err := fc.clientFor(c).ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, "list routes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// DeleteRoute removes a route and, through the API, its sub-routes. Needs ?confirm=true.
func (fc *FleetController) DeleteRoute(c *gin.Context) {
	if c.Query("confirm") != "true" {
		respondError(c, "delete route", errConfirmDelete)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	err := fc.clientFor(c).DeleteRoute(ctx, id)

	entry := models.AuditEntry{
		CompanyID: c.GetString(middleware.KeyCompanyID),
		ActorID:   c.GetString(middleware.KeyUserID),
		Action:    models.AuditRouteDelete,
		RouteID:   id,
		Outcome:   "ok",
	}
	if err != nil {
		entry.Outcome, entry.Message = "error", err.Error()
	}
	audit.Record(ctx, fc.audit, entry)

	if err != nil {
		respondError(c, "delete route", err)
		return
	}
	logrus.WithField("route_id", id).Info("route deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAudit shows the company's latest route writes.
func (fc *FleetController) ListAudit(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	entries, err := fc.audit.Recent(c.Request.Context(), c.GetString(middleware.KeyCompanyID), limit)
	if err != nil {
		respondError(c, "list audit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
