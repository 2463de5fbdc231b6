package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// RegisterScannerRequest is the request body for POST /scanners.
type RegisterScannerRequest struct {
	Name string `json:"name"`
	// EventID locks the device to one event; scans it submits are scoped to it.
	EventID *string `json:"event_id,omitempty"`
}

// Validate implements Validator.
func (s RegisterScannerRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if s.EventID != nil && !uuidRegex.MatchString(*s.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	return errs
}

// RegisterScannerResponse is the data payload for POST /scanners (201). Key is
// the plaintext device key, returned only in this response.
type RegisterScannerResponse struct {
	Device *domain.ScannerDevice `json:"device"`
	Key    string                `json:"key"`
}

// RegisterScannerSuccessResponse is the success response envelope for POST /scanners (201).
type RegisterScannerSuccessResponse struct {
	Data  RegisterScannerResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type ScannerController struct {
	Logger  *slog.Logger
	Service domain.ScannerService
}

func NewScannerController(logger *slog.Logger, svc domain.ScannerService) *ScannerController {
	return &ScannerController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterScanner godoc
// @Summary Register a scanner device
// @Description Creates a check-in station and returns its device key. The key is shown only once; only its hash is stored. The device authenticates scans with the X-Scanner-Id and X-Scanner-Key headers.
// @Tags scanners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterScannerRequest true "Device name and optional event lock"
// @Success 201 {object} controllers.RegisterScannerSuccessResponse "data contains the device and its one-time key"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /scanners [post]
func (c *ScannerController) RegisterScanner(w http.ResponseWriter, r *http.Request) {
	var req RegisterScannerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	device, key, err := c.Service.Register(r.Context(), strings.TrimSpace(req.Name), req.EventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, RegisterScannerResponse{Device: device, Key: key})
}
