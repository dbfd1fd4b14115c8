package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"farelink_admin/internal/drafts"
	"farelink_admin/internal/farelink"
	"farelink_admin/internal/middleware"
	"farelink_admin/internal/routebuilder"
)

var (
	errSaveInFlight = errors.New("this draft is already being saved")
	errAlreadySaved = errors.New("this draft was already saved")
)

// statusFor maps domain errors onto HTTP statuses. Validation problems never reach the
// FareLink API; upstream failures keep the API's 4xx or become 502.
func statusFor(err error) int {
	var validation *routebuilder.ValidationError
	var apiErr *farelink.APIError

	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, farelink.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, drafts.ErrDraftNotFound),
		errors.Is(err, routebuilder.ErrStationNotFound),
		errors.Is(err, routebuilder.ErrLegNotFound),
		errors.Is(err, farelink.ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, routebuilder.ErrConfirmationRequired),
		errors.Is(err, errConfirmDelete):
		return http.StatusPreconditionRequired
	case errors.Is(err, routebuilder.ErrLegReadOnly),
		errors.Is(err, routebuilder.ErrSubRoutesStale),
		errors.Is(err, farelink.ErrDeleteRejected),
		errors.Is(err, errSaveInFlight),
		errors.Is(err, errAlreadySaved):
		return http.StatusConflict
	case errors.Is(err, routebuilder.ErrBlankStation),
		errors.Is(err, routebuilder.ErrRouteEndsRequired),
		errors.Is(err, routebuilder.ErrNotEnoughStations),
		errors.Is(err, routebuilder.ErrInvalidFare),
		errors.Is(err, routebuilder.ErrNoFareChange),
		errors.Is(err, routebuilder.ErrNoGeometry),
		errors.Is(err, farelink.ErrNoDefaultCurrency),
		errors.Is(err, errUnknownBus):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...} and, for incomplete drafts, the list of problems.
func respondError(c *gin.Context, op string, err error) {
	status := statusFor(err)

	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"op":         op,
		"company_id": c.GetString(middleware.KeyCompanyID),
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	body := gin.H{"error": err.Error()}

	var validation *routebuilder.ValidationError
	var apiErr *farelink.APIError
	switch {
	case errors.As(err, &validation):
		body["problems"] = validation.Problems
	case errors.As(err, &apiErr):
		body["error"] = apiErr.Message
	case status == http.StatusInternalServerError:
		body["error"] = "Something went wrong, please try again"
	}
	c.JSON(status, body)
}
