package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"farelink_admin/internal/audit"
	"farelink_admin/internal/drafts"
	"farelink_admin/internal/farelink"
	"farelink_admin/internal/middleware"
	"farelink_admin/internal/models"
	"farelink_admin/internal/routebuilder"
)

var errUnknownBus = errors.New("unknown bus")

// RouteBuilderController serves the draft workflow: stations, sub-routes, fares, save.
type RouteBuilderController struct {
	api    *farelink.Client
	drafts drafts.Store
	audit  audit.Logger
}

func NewRouteBuilderController(api *farelink.Client, store drafts.Store, auditLog audit.Logger) *RouteBuilderController {
	return &RouteBuilderController{api: api, drafts: store, audit: auditLog}
}

// draftView adds what the fare entry screen derives from a draft.
type draftView struct {
	routebuilder.Draft
	StationsModified bool     `json:"stationsModified"`
	NewLegs          int      `json:"newLegs"`
	CanSubmit        bool     `json:"canSubmit"`
	Problems         []string `json:"problems"`
}

func viewOf(d routebuilder.Draft) draftView {
	v := draftView{
		Draft:            d,
		StationsModified: d.StationsModified(),
		NewLegs:          d.NewLegs(),
		Problems:         []string{},
	}
	var validation *routebuilder.ValidationError
	if err := d.Validate(); errors.As(err, &validation) {
		v.Problems = validation.Problems
	}
	v.CanSubmit = len(v.Problems) == 0
	return v
}

// clientFor forwards the admin's own token to the FareLink API.
func (rc *RouteBuilderController) clientFor(c *gin.Context) *farelink.Client {
	return rc.api.WithToken(c.GetString(middleware.KeyToken))
}

func (rc *RouteBuilderController) loadDraft(c *gin.Context) (routebuilder.Draft, bool) {
	d, err := rc.drafts.Get(c.Request.Context(), c.GetString(middleware.KeyCompanyID), c.Param("draftId"))
	if err != nil {
		respondError(c, "load draft", err)
		return routebuilder.Draft{}, false
	}
	return d, true
}

func (rc *RouteBuilderController) storeDraft(c *gin.Context, op string, d routebuilder.Draft, status int) {
	if err := rc.drafts.Put(c.Request.Context(), d); err != nil {
		respondError(c, op, err)
		return
	}
	c.JSON(status, gin.H{"draft": viewOf(d)})
}

// resolveBuses looks ids up in the company's fleet, keeping the requested order.
func (rc *RouteBuilderController) resolveBuses(c *gin.Context, ids []string) ([]models.Bus, error) {
	if len(ids) == 0 {
		return []models.Bus{}, nil
	}
	fleet, err := rc.clientFor(c).ListBuses(c.Request.Context())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Bus, len(fleet))
	for _, b := range fleet {
		byID[b.ID] = b
	}

	buses := make([]models.Bus, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownBus, id)
		}
		buses = append(buses, b)
	}
	return buses, nil
}

type createDraftInput struct {
	Departure   string   `json:"departure"`
	Destination string   `json:"destination"`
	BusIDs      []string `json:"bus_ids"`
}

// CreateDraft starts a new route.
func (rc *RouteBuilderController) CreateDraft(c *gin.Context) {
	var input createDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	buses, err := rc.resolveBuses(c, input.BusIDs)
	if err != nil {
		respondError(c, "create draft", err)
		return
	}

	d := routebuilder.NewDraft(c.GetString(middleware.KeyCompanyID), input.Departure, input.Destination).WithBuses(buses)
	rc.storeDraft(c, "create draft", d, http.StatusCreated)
}

// EditRoute starts a draft from a persisted route.
func (rc *RouteBuilderController) EditRoute(c *gin.Context) {
	route, err := rc.clientFor(c).GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "edit route", err)
		return
	}

	d := routebuilder.EditDraft(c.GetString(middleware.KeyCompanyID), route)
	rc.storeDraft(c, "edit route", d, http.StatusCreated)
}

func (rc *RouteBuilderController) GetDraft(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": viewOf(d)})
}

type updateDraftInput struct {
	Departure   *string   `json:"departure"`
	Destination *string   `json:"destination"`
	BusIDs      *[]string `json:"bus_ids"`
}

// UpdateDraft changes departure, destination or the assigned buses.
func (rc *RouteBuilderController) UpdateDraft(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	var input updateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	d = d.WithEnds(input.Departure, input.Destination)
	if input.BusIDs != nil {
		buses, err := rc.resolveBuses(c, *input.BusIDs)
		if err != nil {
			respondError(c, "update draft", err)
			return
		}
		d = d.WithBuses(buses)
	}
	rc.storeDraft(c, "update draft", d, http.StatusOK)
}

func (rc *RouteBuilderController) DiscardDraft(c *gin.Context) {
	if err := rc.drafts.Delete(c.Request.Context(), c.GetString(middleware.KeyCompanyID), c.Param("draftId")); err != nil {
		respondError(c, "discard draft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}

type stationInput struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

func (rc *RouteBuilderController) AddStation(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	var input stationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	d, err := d.AddStation(input.Name)
	if err == nil && input.Lat != nil && input.Lng != nil {
		added := d.Stations[len(d.Stations)-1]
		d, err = d.LocateStation(added.ID, *input.Lat, *input.Lng)
	}
	if err != nil {
		respondError(c, "add station", err)
		return
	}
	rc.storeDraft(c, "add station", d, http.StatusOK)
}

type locationInput struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// LocateStation sets the coordinates used by the geometry preview.
func (rc *RouteBuilderController) LocateStation(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	d, err := d.LocateStation(c.Param("stationId"), *input.Lat, *input.Lng)
	if err != nil {
		respondError(c, "locate station", err)
		return
	}
	rc.storeDraft(c, "locate station", d, http.StatusOK)
}

// RemoveStation needs ?confirm=<station name>. Only the draft changes.
func (rc *RouteBuilderController) RemoveStation(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	d, err := d.RemoveStation(c.Param("stationId"), c.Query("confirm"))
	if err != nil {
		respondError(c, "remove station", err)
		return
	}
	rc.storeDraft(c, "remove station", d, http.StatusOK)
}

// GenerateSubRoutes derives legs for a new route or reconciles an edited one.
func (rc *RouteBuilderController) GenerateSubRoutes(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	d, err := d.GenerateSubRoutes()
	if err != nil {
		respondError(c, "generate subroutes", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"draft_id": d.ID,
		"mode":     d.Mode,
		"legs":     len(d.Legs),
		"new_legs": d.NewLegs(),
	}).Debug("sub-routes generated")
	rc.storeDraft(c, "generate subroutes", d, http.StatusOK)
}

type fareInput struct {
	Fare     *string `json:"fare"`
	KidsFare *string `json:"kids_fare"`
}

// SetFare takes the raw text of the fare fields and stores it cash-register formatted.
func (rc *RouteBuilderController) SetFare(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sub-route index"})
		return
	}

	var input fareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	d, err = d.SetFare(idx, input.Fare, input.KidsFare)
	if err != nil {
		respondError(c, "set fare", err)
		return
	}
	if err := rc.drafts.Put(c.Request.Context(), d); err != nil {
		respondError(c, "set fare", err)
		return
	}

	display := gin.H{}
	if input.Fare != nil {
		_, display["fare"] = routebuilder.FormatFareInput(*input.Fare)
	}
	if input.KidsFare != nil {
		_, display["kids_fare"] = routebuilder.FormatFareInput(*input.KidsFare)
	}
	c.JSON(http.StatusOK, gin.H{
		"leg":     d.Legs[idx],
		"display": display,
		"draft":   viewOf(d),
	})
}

// Geometry previews the route as GeoJSON.
func (rc *RouteBuilderController) Geometry(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}

	raw, err := routebuilder.PathGeoJSON(d.Stations)
	if err != nil {
		respondError(c, "geometry", err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", raw)
}

// Save submits the draft as one create or update. The draft is deleted only after the
// FareLink API accepted it; any failure leaves it for a retry.
func (rc *RouteBuilderController) Save(c *gin.Context) {
	d, ok := rc.loadDraft(c)
	if !ok {
		return
	}
	if err := d.ReadyToSubmit(); err != nil {
		respondError(c, "save draft", err)
		return
	}

	ctx := c.Request.Context()
	acquired, err := rc.drafts.AcquireSubmit(ctx, d.CompanyID, d.ID)
	if err != nil {
		respondError(c, "save draft", err)
		return
	}
	if !acquired {
		respondError(c, "save draft", errSaveInFlight)
		return
	}
	companyID, draftID := d.CompanyID, d.ID
	defer func() {
		if err := rc.drafts.ReleaseSubmit(context.WithoutCancel(ctx), companyID, draftID); err != nil {
			logrus.WithError(err).WithField("draft_id", draftID).Warn("failed to release submit guard")
		}
	}()

	// A save that finished while we waited for the guard has already deleted the draft
	current, err := rc.drafts.Get(ctx, d.CompanyID, d.ID)
	if errors.Is(err, drafts.ErrDraftNotFound) {
		respondError(c, "save draft", errAlreadySaved)
		return
	}
	if err != nil {
		respondError(c, "save draft", err)
		return
	}
	if err := current.ReadyToSubmit(); err != nil {
		respondError(c, "save draft", err)
		return
	}
	d = current

	api := rc.clientFor(c)
	currencies, err := api.ListCurrencies(ctx)
	if err != nil {
		respondError(c, "save draft", err)
		return
	}
	currency, err := farelink.DefaultCurrency(currencies)
	if err != nil {
		respondError(c, "save draft", err)
		return
	}

	payload, err := d.BuildPayload(currency)
	if err != nil {
		respondError(c, "save draft", err)
		return
	}

	var route models.Route
	action, status := models.AuditRouteCreate, http.StatusCreated
	if d.Mode == routebuilder.ModeEdit {
		action, status = models.AuditRouteUpdate, http.StatusOK
		route, err = api.UpdateRoute(ctx, d.RouteID, payload)
	} else {
		route, err = api.CreateRoute(ctx, payload)
	}

	entry := models.AuditEntry{
		CompanyID:   d.CompanyID,
		ActorID:     c.GetString(middleware.KeyUserID),
		Action:      action,
		RouteID:     firstNonEmpty(route.ID, d.RouteID),
		Departure:   payload.Departure,
		Destination: payload.Destination,
		BusIDs:      payload.BusIDs,
		LegCount:    len(payload.SubRoutes),
		Outcome:     "ok",
	}
	if err != nil {
		entry.Outcome, entry.Message = "error", err.Error()
		audit.Record(ctx, rc.audit, entry)
		respondError(c, "save draft", err)
		return
	}
	audit.Record(ctx, rc.audit, entry)

	if err := rc.drafts.Delete(ctx, d.CompanyID, d.ID); err != nil {
		logrus.WithError(err).WithField("draft_id", d.ID).Warn("route saved but draft not cleared")
	}

	logrus.WithFields(logrus.Fields{
		"route_id": route.ID,
		"action":   action,
		"legs":     len(payload.SubRoutes),
	}).Info("route saved")
	c.JSON(status, gin.H{"route": route, "next": "/routes"})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
