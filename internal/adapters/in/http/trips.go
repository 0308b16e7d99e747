package http

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ReportTrip handles POST /api/v1/orders/{orderId}/trips. JSON bodies carry
// photo URLs; multipart bodies carry the photos themselves, which are stored
// first and then reported by URL.
func (s *Server) ReportTrip(c echo.Context, orderId string) error {
	const command = "report_trip"

	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	var req reportTripRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		req, err = s.readTripForm(c, id)
	} else {
		err = bind(c, &req)
	}
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := newReportTripCommand(id, req, time.Now().UTC())
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	evidenceID, tripNumber, err := s.commands.ReportTrip.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.JSON(http.StatusCreated, reportedTripResponse{ID: evidenceID.String(), TripNumber: tripNumber})
}

func newReportTripCommand(orderID kernel.UUID, req reportTripRequest, now time.Time) (commands.ReportTripCommand, error) {
	photos := make([]order.Photo, 0, len(req.Photos))
	for _, p := range req.Photos {
		takenAt := now
		if p.TakenAt != nil {
			takenAt = *p.TakenAt
		}
		photo, err := order.NewPhoto(p.URL, takenAt)
		if err != nil {
			return commands.ReportTripCommand{}, err
		}
		photos = append(photos, photo)
	}

	var coordinates *kernel.GeoPoint
	if req.Coordinates != nil {
		point, err := kernel.NewGeoPoint(req.Coordinates.Lat, req.Coordinates.Lon)
		if err != nil {
			return commands.ReportTripCommand{}, err
		}
		coordinates = &point
	}

	return commands.NewReportTripCommand(orderID, req.DriverName, photos, coordinates)
}

// readTripForm uploads every "photos" file and returns the request as if the
// driver had sent their URLs.
func (s *Server) readTripForm(c echo.Context, orderID kernel.UUID) (reportTripRequest, error) {
	if s.photos == nil {
		return reportTripRequest{}, errs.NewValueIsInvalidErrorWithCause("photos", errPhotoStorageDisabled)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return reportTripRequest{}, errs.NewValueIsInvalidErrorWithCause("multipart form", err)
	}

	req := reportTripRequest{DriverName: c.FormValue("driverName")}
	if lat, lon := c.FormValue("lat"), c.FormValue("lon"); lat != "" || lon != "" {
		point, err := parseFormPoint(lat, lon)
		if err != nil {
			return reportTripRequest{}, err
		}
		req.Coordinates = &point
	}

	for _, fh := range form.File["photos"] {
		url, err := s.uploadPhoto(c.Request().Context(), orderID, fh)
		if err != nil {
			return reportTripRequest{}, err
		}
		req.Photos = append(req.Photos, photoRequest{URL: url})
	}

	return req, c.Validate(&req)
}

func (s *Server) uploadPhoto(ctx context.Context, orderID kernel.UUID, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("photo", err)
	}
	defer f.Close()

	key := fmt.Sprintf("trips/%s/%s%s", orderID, kernel.NewUUID(), strings.ToLower(filepath.Ext(fh.Filename)))
	url, err := s.photos.Upload(ctx, key, fh.Header.Get(echo.HeaderContentType), f, fh.Size)
	if err != nil {
		return "", fmt.Errorf("store photo %q: %w", fh.Filename, err)
	}
	return url, nil
}

func parseFormPoint(lat, lon string) (geoPointRequest, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geoPointRequest{}, errs.NewValueIsInvalidErrorWithCause("lat", err)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geoPointRequest{}, errs.NewValueIsInvalidErrorWithCause("lon", err)
	}
	return geoPointRequest{Lat: latitude, Lon: longitude}, nil
}

// ConfirmTrip handles POST /api/v1/orders/{orderId}/trips/{evidenceId}/confirm.
func (s *Server) ConfirmTrip(c echo.Context, orderId string, evidenceId string) error {
	const command = "confirm_trip"

	orderID, evidenceID, err := parseEvidenceIDs(orderId, evidenceId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	cmd, err := commands.NewConfirmTripCommand(orderID, evidenceID, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.ConfirmTrip.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

// RejectTrip handles POST /api/v1/orders/{orderId}/trips/{evidenceId}/reject.
func (s *Server) RejectTrip(c echo.Context, orderId string, evidenceId string) error {
	const command = "reject_trip"

	orderID, evidenceID, err := parseEvidenceIDs(orderId, evidenceId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req rejectTripRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewRejectTripCommand(orderID, evidenceID, req.Reason, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.RejectTrip.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

func parseEvidenceIDs(orderId, evidenceId string) (kernel.UUID, kernel.UUID, error) {
	orderID, err := parseID("orderId", orderId)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	evidenceID, err := parseID("evidenceId", evidenceId)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, evidenceID, nil
}
