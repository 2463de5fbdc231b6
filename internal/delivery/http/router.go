// Package http wires controllers and middleware into the HTTP surface.
package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	scannerSvc domain.ScannerService,
	registrationController *controllers.RegistrationController,
	scanController *controllers.ScanController,
	scannerController *controllers.ScannerController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	scanAuth := middleware.RequireScanActor(verifier, scannerSvc, logger)

	// Registrations
	mux.HandleFunc("POST /registrations", auth(registrationController.Register))
	mux.HandleFunc("POST /registrations/unregister", auth(registrationController.Unregister))
	mux.HandleFunc("GET /registrations/{registrationID}/ticket", auth(registrationController.GetTicket))
	mux.HandleFunc("GET /registrations/{registrationID}/scans", auth(scanController.ListRegistrationScans))
	mux.HandleFunc("POST /events/{eventID}/registrations/bulk", auth(registrationController.BulkRegister))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(registrationController.ListEventRegistrations))
	mux.HandleFunc("GET /me/registrations", auth(registrationController.ListMyRegistrations))

	// Scans
	mux.HandleFunc("POST /scans/validate", scanAuth(scanController.ValidateScan))

	// Scanner devices
	mux.HandleFunc("POST /scanners", auth(scannerController.RegisterScanner))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
