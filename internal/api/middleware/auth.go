package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/mabruk/internal/api/response"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Identity is the verified caller taken from the identity provider's token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// AuthConfig configures bearer token verification. Tokens are HS256 signed
// with Secret. Issuer is only checked when set.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
	// Leeway absorbs clock drift between the provider and this service.
	Leeway time.Duration
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that rejects requests without a valid bearer
// token and stores the caller's Identity in the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(cfg.Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearerToken(r)
			if raw == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			var claims tokenClaims
			_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("token rejected")
				if errors.Is(err, jwt.ErrTokenExpired) {
					response.WriteError(w, http.StatusUnauthorized, "token expired")
					return
				}
				response.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			identity := &Identity{UserID: userID, Email: claims.Email, Role: claims.Role}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			logger := zerolog.Ctx(ctx).With().Str("user_id", userID.String()).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
		})
	}
}

// GetIdentity returns the verified caller, or nil on unauthenticated routes.
func GetIdentity(ctx context.Context) *Identity {
	identity, _ := ctx.Value(IdentityKey).(*Identity)
	return identity
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
