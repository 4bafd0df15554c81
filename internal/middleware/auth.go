package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
	"github.com/pebec/beepa-tracker/pkg/jwt"
)

// TokenValidator defines the interface for identity token validation
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// Authorizer resolves a verified identity to a user account and capability
type Authorizer interface {
	Authorize(ctx context.Context, identity *model.Identity) (*service.Authorization, error)
}

// Identity returns a middleware that validates the Bearer token and puts the
// verified identity assertion in the request context. It does not touch the
// user store; that is WithUser's job.
func Identity(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					model.NewUnauthorizedError("token expired").WriteJSON(w)
				case errors.Is(err, jwt.ErrInvalidSignature):
					model.NewUnauthorizedError("invalid token signature").WriteJSON(w)
				default:
					model.NewUnauthorizedError("invalid token").WriteJSON(w)
				}
				return
			}

			identity := &model.Identity{
				Subject: claims.Subject,
				Email:   claims.Email,
				Name:    claims.Name,
			}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser resolves the verified identity to a user account and derives the
// request capability. Pending invitees are activated here on their first
// request. Requests from identities with no account, or deactivated
// accounts, stop at this point.
func WithUser(authorizer Authorizer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			auth, err := authorizer.Authorize(r.Context(), identity)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrNotSignedIn):
					model.NewUnauthorizedError("authentication required").WriteJSON(w)
				case errors.Is(err, service.ErrNotInvited):
					model.NewForbiddenError("no account found for this identity").WriteJSON(w)
				case errors.Is(err, service.ErrUserDeactivated):
					model.NewForbiddenError("account has been deactivated").WriteJSON(w)
				default:
					model.NewInternalError("").WriteJSON(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, auth.User)
			ctx = context.WithValue(ctx, CapabilityKey, auth.Capability)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose capability is not an active admin.
// It must run after WithUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capability, ok := GetCapability(r.Context())
		if !ok {
			model.NewUnauthorizedError("authentication required").WriteJSON(w)
			return
		}
		if !capability.IsAdmin() {
			model.NewForbiddenError("admin access required").WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the verified identity from context
func GetIdentity(ctx context.Context) *model.Identity {
	if identity, ok := ctx.Value(IdentityKey).(*model.Identity); ok {
		return identity
	}
	return nil
}

// GetUser extracts the resolved user from context
func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserKey).(*model.User); ok {
		return user
	}
	return nil
}

// GetCapability extracts the request capability from context
func GetCapability(ctx context.Context) (model.Capability, bool) {
	capability, ok := ctx.Value(CapabilityKey).(model.Capability)
	return capability, ok
}
