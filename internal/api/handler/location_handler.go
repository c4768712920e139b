package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/geotrail/location-log/internal/api/metrics"
	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

type LocationHandler struct {
	locationService ports.LocationService
}

func NewLocationHandler(locationService ports.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// createLocationRequest keeps lat and lon as pointers so that 0 is accepted
// while an absent field still fails "required".
type createLocationRequest struct {
	Device string   `json:"device" validate:"required"`
	Lat    *float64 `json:"lat"    validate:"required"`
	Lon    *float64 `json:"lon"    validate:"required"`
	TS     flexTime `json:"ts"     swaggertype:"string"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type locationResponse struct {
	Device string    `json:"device"`
	Lat    float64   `json:"lat"`
	Lon    float64   `json:"lon"`
	TS     time.Time `json:"ts"`
}

// Create records one location report for the authenticated user.
//
// @Summary      Record a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLocationRequest  true  "Location report"
// @Success      201   {object}  okResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /locations [post]
func (h *LocationHandler) Create(c echo.Context) error {
	var req createLocationRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.LocationsRecordedTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	}

	stored, err := h.locationService.Record(c.Request().Context(), ports.RecordLocationInput{
		UserID:    ctxUserID(c),
		Device:    req.Device,
		Lat:       *req.Lat,
		Lon:       *req.Lon,
		Timestamp: req.TS.Time,
	})
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrValidation) {
			result = metrics.ResultRejected
		}
		metrics.LocationsRecordedTotal.WithLabelValues(result).Inc()
		return err
	}

	result := metrics.ResultStored
	if !stored {
		result = metrics.ResultDuplicate
	}
	metrics.LocationsRecordedTotal.WithLabelValues(result).Inc()
	return c.JSON(http.StatusCreated, okResponse{OK: true})
}

// List returns the caller's most recent locations, newest first.
//
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        device  query     string  false  "Only this device"
// @Param        limit   query     int     false  "Max rows (default 50, max 500)"
// @Success      200     {array}   locationResponse
// @Failure      401     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	locs, err := h.locationService.List(c.Request().Context(), ports.ListLocationsInput{
		UserID: ctxUserID(c),
		Device: c.QueryParam("device"),
		Limit:  parseLimit(c.QueryParam("limit")),
	})
	if err != nil {
		return err
	}

	out := make([]locationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, locationResponse{Device: l.Device, Lat: l.Lat, Lon: l.Lon, TS: l.Timestamp})
	}

	metrics.LocationsListedTotal.Inc()
	return c.JSON(http.StatusOK, out)
}

// parseLimit reads the leading integer of raw, so "20rows" is 20. Anything
// unparsable, zero or negative means the default; the service clamps the top.
func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	end := strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
	if end == -1 {
		end = len(raw)
	}
	n, err := strconv.Atoi(raw[:end])
	if errors.Is(err, strconv.ErrRange) {
		return ports.MaxLocationLimit
	}
	if err != nil || n <= 0 {
		return ports.DefaultLocationLimit
	}
	return n
}
