package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// RegisterRequest is the request body for POST /registrations.
type RegisterRequest struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if r.UserID == "" {
		errs = append(errs, "user_id is required")
	} else if !uuidRegex.MatchString(r.UserID) {
		errs = append(errs, "user_id must be a valid UUID")
	}
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	return errs
}

// RegisterSuccessResponse is the success response envelope for POST /registrations (201).
type RegisterSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a user for an event
// @Description Registers the user for the event, reserves a capacity slot, mints the check-in token, and emails the ticket. At most one registration exists per (user, event) pair.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "User and event to register"
// @Success 201 {object} controllers.RegisterSuccessResponse "data contains the registration including its token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (user or event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or event full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reg, err := c.Service.Register(r.Context(), req.UserID, req.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrAlreadyRegistered) || errors.Is(err, domain.ErrEventFull) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// BulkRegisterRequest is the request body for POST /events/{eventID}/registrations/bulk.
type BulkRegisterRequest struct {
	UserIDs []string `json:"user_ids"`
}

// Validate implements Validator.
func (b BulkRegisterRequest) Validate() []string {
	var errs []string
	if len(b.UserIDs) == 0 {
		errs = append(errs, "user_ids is required")
	}
	for _, id := range b.UserIDs {
		if !uuidRegex.MatchString(id) {
			errs = append(errs, "user_ids must contain valid UUIDs")
			break
		}
	}
	return errs
}

// BulkRegisterSuccessResponse is the success response envelope for POST /events/{eventID}/registrations/bulk (200).
type BulkRegisterSuccessResponse struct {
	Data  []*domain.BulkRegistrationItem `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// BulkRegister godoc
// @Summary Register multiple users for an event
// @Description Registers each user independently and reports a per-user outcome (created, already_registered, event_full, user_not_found). One failing user does not roll back the others.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body BulkRegisterRequest true "User IDs to register"
// @Success 200 {object} controllers.BulkRegisterSuccessResponse "data is an array of per-user outcomes"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/bulk [post]
func (c *RegistrationController) BulkRegister(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req BulkRegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	items, err := c.Service.BulkRegister(r.Context(), eventID, req.UserIDs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if items == nil {
		items = []*domain.BulkRegistrationItem{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// UnregisterRequest is the request body for POST /registrations/unregister.
type UnregisterRequest struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (u UnregisterRequest) Validate() []string {
	var errs []string
	if u.UserID == "" {
		errs = append(errs, "user_id is required")
	} else if !uuidRegex.MatchString(u.UserID) {
		errs = append(errs, "user_id must be a valid UUID")
	}
	if u.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if !uuidRegex.MatchString(u.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	return errs
}

// UnregisterResponse is the data payload for POST /registrations/unregister (200).
type UnregisterResponse struct {
	Status string `json:"status"`
}

// UnregisterSuccessResponse is the success response envelope for POST /registrations/unregister (200).
type UnregisterSuccessResponse struct {
	Data  UnregisterResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Unregister godoc
// @Summary Cancel a registration
// @Description Removes the user's registration for the event and releases the capacity slot. The old token stops resolving and is rejected at the door.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UnregisterRequest true "User and event to unregister"
// @Success 200 {object} controllers.UnregisterSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/unregister [post]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	var req UnregisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Unregister(r.Context(), req.UserID, req.EventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UnregisterResponse{Status: "unregistered"})
}

// GetTicketResponse is the data payload for GET /registrations/{registrationID}/ticket (200).
type GetTicketResponse struct {
	Token string `json:"token"`
}

// GetTicketSuccessResponse is the success response envelope for GET /registrations/{registrationID}/ticket (200).
type GetTicketSuccessResponse struct {
	Data  GetTicketResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetTicket godoc
// @Summary Get the check-in token for a registration
// @Description Returns the stored token for the registration so the client can re-render the QR code. The token never changes after registration.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.GetTicketSuccessResponse "data contains the token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/ticket [get]
func (c *RegistrationController) GetTicket(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	token, err := c.Service.GetTicket(r.Context(), registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GetTicketResponse{Token: token})
}

// ListEventRegistrationsResponse is the data payload for GET /events/{eventID}/registrations (200).
type ListEventRegistrationsResponse struct {
	Items      []*domain.Registration `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventRegistrationsSuccessResponse is the success response envelope for GET /events/{eventID}/registrations (200).
type ListEventRegistrationsSuccessResponse struct {
	Data  ListEventRegistrationsResponse `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// ListEventRegistrations godoc
// @Summary List registrations for an event
// @Description Returns a paginated list of the event's registrations ordered by registration time. Use page and page_size query params.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventRegistrationsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	regs, total, err := c.Service.ListForEvent(r.Context(), eventID, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventRegistrationsResponse{Items: regs, Pagination: meta})
}

// ListMyRegistrationsSuccessResponse is the success response envelope for GET /me/registrations (200).
type ListMyRegistrationsSuccessResponse struct {
	Data  []*domain.RegistrationWithEvent `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// ListMyRegistrations godoc
// @Summary List the current user's registrations
// @Description Returns the authenticated user's registrations with their events, most recent first.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyRegistrationsSuccessResponse "data is an array of registrations with events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/registrations [get]
func (c *RegistrationController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListForUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if regs == nil {
		regs = []*domain.RegistrationWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
