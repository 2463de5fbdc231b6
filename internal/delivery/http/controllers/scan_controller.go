package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// ValidateScanRequest is the request body for POST /scans/validate.
type ValidateScanRequest struct {
	Token string `json:"token"`
	// EventID scopes the scan to one event. Ignored when the authenticated
	// scanner device is locked to an event.
	EventID  string `json:"event_id,omitempty"`
	Location string `json:"location,omitempty"`
}

// Validate implements Validator.
func (v ValidateScanRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.Token) == "" {
		errs = append(errs, "token is required")
	}
	if v.EventID != "" && !uuidRegex.MatchString(v.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	return errs
}

// ValidateScanSuccessResponse is the success response envelope for POST /scans/validate (200).
type ValidateScanSuccessResponse struct {
	Data  *domain.ScanDecision `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type ScanController struct {
	Logger   *slog.Logger
	Service  domain.ValidationService
	ScanLogs domain.ScanLogRepository
}

func NewScanController(logger *slog.Logger, svc domain.ValidationService, scanLogs domain.ScanLogRepository) *ScanController {
	return &ScanController{
		Logger:   logger,
		Service:  svc,
		ScanLogs: scanLogs,
	}
}

// ValidateScan godoc
// @Summary Validate a scanned check-in token
// @Description Decides accept or reject for a scanned token, marks attendance on the first accepted scan, and records the attempt in the scan log. Rejections are returned as decisions with HTTP 200, not as errors. Authenticates with a staff Bearer token or scanner device headers (X-Scanner-Id / X-Scanner-Key).
// @Tags scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ValidateScanRequest true "Token to validate"
// @Success 200 {object} controllers.ValidateScanSuccessResponse "data contains the decision (valid plus reason on rejection)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /scans/validate [post]
func (c *ScanController) ValidateScan(w http.ResponseWriter, r *http.Request) {
	var req ValidateScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ScanActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	expectedEventID := req.EventID
	if actor.LockedEventID != "" {
		expectedEventID = actor.LockedEventID
	}
	decision, err := c.Service.ValidateScan(r.Context(), domain.ScanRequest{
		Token:           req.Token,
		ExpectedEventID: expectedEventID,
		ScannedBy:       actor.Name,
		Location:        req.Location,
	})
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, decision)
}

// ListRegistrationScansSuccessResponse is the success response envelope for GET /registrations/{registrationID}/scans (200).
type ListRegistrationScansSuccessResponse struct {
	Data  []*domain.ScanLogEntry `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListRegistrationScans godoc
// @Summary List scan attempts for a registration
// @Description Returns the audit trail of scan attempts recorded against the registration, oldest first.
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.ListRegistrationScansSuccessResponse "data is an array of scan log entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/scans [get]
func (c *ScanController) ListRegistrationScans(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	entries, err := c.ScanLogs.ListByRegistrationID(r.Context(), registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if entries == nil {
		entries = []*domain.ScanLogEntry{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}
