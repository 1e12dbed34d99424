package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "servicehub/pkg/errors"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/logger"
	"servicehub/pkg/model"
)

const identityKey contextKey = "identity"

// TokenVerifier turns a bearer token into the caller's identity (user fields only).
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// ProfileResolver looks up the caller's profile. It returns nil, nil when the
// user has not created one yet.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, userID string) (*model.Profile, error)
}

// Authenticate attaches the caller's identity when a bearer token is present.
// Anonymous requests pass through; handlers that need a caller use RequireIdentity.
// A present but invalid token is always rejected.
func Authenticate(verifier TokenVerifier, profiles ProfileResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.WriteError(w, apperrors.Unauthorized("Authorization header must be a Bearer token"))
				return
			}

			identity, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				log.Warn("Rejected bearer token",
					"request_id", RequestIDFromContext(r.Context()),
					"error", err,
				)
				httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired token"))
				return
			}

			if profiles != nil {
				profile, err := profiles.ResolveProfile(r.Context(), identity.UserID)
				if err != nil {
					log.Error("Failed to resolve caller profile",
						"request_id", RequestIDFromContext(r.Context()),
						"user_id", identity.UserID,
						"error", err,
					)
					httputil.WriteError(w, err)
					return
				}
				if profile != nil {
					identity.ProfileID = profile.ID
					identity.ProfileType = profile.Type
					location := profile.Location
					identity.Location = &location
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated caller or nil.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey).(*model.Identity)
	return identity
}

// RequireIdentity returns the authenticated caller or a 401 AppError.
func RequireIdentity(ctx context.Context) (*model.Identity, error) {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	return identity, nil
}

// OriginPoint reads lat/lng from the query and falls back to the caller's
// profile location.
func OriginPoint(r *http.Request) (model.GeoPoint, error) {
	query := r.URL.Query()
	if query.Has("lat") || query.Has("lng") {
		lat, lng, err := httputil.QueryPoint(r)
		if err != nil {
			return model.GeoPoint{}, err
		}
		return model.NewGeoPoint(lat, lng), nil
	}

	identity := IdentityFromContext(r.Context())
	if identity != nil && identity.Location != nil {
		return *identity.Location, nil
	}
	return model.GeoPoint{}, apperrors.InvalidInput("lat and lng query parameters are required")
}
