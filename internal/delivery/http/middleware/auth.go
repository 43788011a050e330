package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventfinder/internal/delivery/http/helpers"
	"eventfinder/internal/domain"
)

// Guard messages returned with 401 responses.
const (
	MsgAuthHeaderMissing  = "Authorization header missing"
	MsgInvalidTokenFormat = "Invalid token format"
	MsgTokenVerification  = "Token verification failed"
)

type contextKey string

const (
	userKey  contextKey = "user"
	eventKey contextKey = "event"
)

// Authenticator resolves the user asserted by a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// EventAuthorizer decides whether caller may modify event id. A nil event with a
// nil error means the caller is allowed without the event having been loaded.
type EventAuthorizer interface {
	Authorize(ctx context.Context, caller *domain.User, id int64) (*domain.Event, error)
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user from the context, if present.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

// WithEvent returns a context carrying the event loaded by RequireEventOwner.
func WithEvent(ctx context.Context, e *domain.Event) context.Context {
	return context.WithValue(ctx, eventKey, e)
}

// EventFromContext returns the event loaded by RequireEventOwner, if any.
func EventFromContext(ctx context.Context) (*domain.Event, bool) {
	e, ok := ctx.Value(eventKey).(*domain.Event)
	return e, ok && e != nil
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the user in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(auth Authenticator, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, MsgAuthHeaderMissing)
				return
			}
			scheme, token, found := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !found || scheme != "Bearer" || token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, MsgInvalidTokenFormat)
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, MsgTokenVerification)
				return
			}
			next(w, r.WithContext(WithUser(r.Context(), user)))
		}
	}
}

// RequireEventOwner returns a wrapper that lets the request through only when the
// authenticated user owns the event named by the {id} path value or is an admin.
// It must run after RequireAuth.
func RequireEventOwner(authz EventAuthorizer, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, h.MsgUnauthorized)
				return
			}
			if user.IsAdmin() {
				next(w, r)
				return
			}
			id, err := h.ParseID(r, "id")
			if err != nil {
				h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
				return
			}
			event, err := authz.Authorize(r.Context(), user, id)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrNotFound):
					h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, h.MsgEventNotFound)
				case errors.Is(err, domain.ErrForbidden):
					h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, h.MsgForbiddenEvent)
				default:
					h.WriteServiceError(w, r, logger, err)
				}
				return
			}
			if event != nil {
				r = r.WithContext(WithEvent(r.Context(), event))
			}
			next(w, r)
		}
	}
}

// Chain wraps handler with mws so that the first middleware runs first.
func Chain(handler http.HandlerFunc, mws ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
