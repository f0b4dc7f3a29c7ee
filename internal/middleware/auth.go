package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/iou/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// PartyIDKey is the context key for the authenticated party's phone number.
const PartyIDKey contextKey = "party_id"

// GetPartyID extracts the party ID from the context.
// Returns empty string if not found.
func GetPartyID(ctx context.Context) string {
	partyID, _ := ctx.Value(PartyIDKey).(string)
	return partyID
}

// WithPartyID returns a copy of ctx carrying partyID.
func WithPartyID(ctx context.Context, partyID string) context.Context {
	return context.WithValue(ctx, PartyIDKey, partyID)
}

// RequireAuth returns an interceptor that validates bearer JWTs and requires
// authentication. The party ID from the token is added to the context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithPartyID(ctx, claims.PartyID), req)
		}
	}
}
