package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	scanActorKey contextKey = "scanActor"
)

// ScanActor identifies who is submitting a scan: a staff member (by user ID)
// or a scanner device. LockedEventID is set when a device is bound to one
// event; every scan it submits is scoped to that event.
type ScanActor struct {
	Name          string
	LockedEventID string
}

// SetUserID returns a context with the authenticated user ID set.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// SetScanActor returns a context carrying the scan actor.
func SetScanActor(ctx context.Context, actor ScanActor) context.Context {
	return context.WithValue(ctx, scanActorKey, actor)
}

// ScanActorFromContext returns the scan actor, if present.
func ScanActorFromContext(ctx context.Context) (ScanActor, bool) {
	actor, ok := ctx.Value(scanActorKey).(ScanActor)
	return actor, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// user ID in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, err := bearerUserID(r, verifier)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, err.Error())
				return
			}
			r = r.WithContext(SetUserID(r.Context(), userID))
			next(w, r)
		}
	}
}

// RequireScanActor authenticates scan submissions. It accepts either a staff
// Bearer token (the user ID becomes the actor) or scanner device credentials
// in the X-Scanner-Id / X-Scanner-Key headers (the device name becomes the
// actor, and a device locked to an event scopes the scan to it).
func RequireScanActor(verifier domain.TokenVerifier, scanners domain.ScannerService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if deviceID := r.Header.Get("X-Scanner-Id"); deviceID != "" {
				device, err := scanners.Authenticate(r.Context(), deviceID, r.Header.Get("X-Scanner-Key"))
				if err != nil {
					if errors.Is(err, domain.ErrUnauthorized) {
						h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid scanner credentials")
						return
					}
					logger.ErrorContext(r.Context(), "scanner authentication failed", "err", err)
					h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "scanner authentication failed")
					return
				}
				actor := ScanActor{Name: device.Name}
				if device.EventID != nil {
					actor.LockedEventID = *device.EventID
				}
				r = r.WithContext(SetScanActor(r.Context(), actor))
				next(w, r)
				return
			}

			userID, err := bearerUserID(r, verifier)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, err.Error())
				return
			}
			r = r.WithContext(SetScanActor(SetUserID(r.Context(), userID), ScanActor{Name: userID}))
			next(w, r)
		}
	}
}

func bearerUserID(r *http.Request, verifier domain.TokenVerifier) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errors.New("missing authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", errors.New("invalid authorization format")
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", errors.New("missing token")
	}
	userID, err := verifier.Verify(token)
	if err != nil {
		return "", errors.New("invalid or expired token")
	}
	return userID, nil
}
