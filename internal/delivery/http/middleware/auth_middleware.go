package middleware

import (
	"context"
	"net/http"
	"strings"

	"doctor-connect/internal/domain/entity"
	"doctor-connect/pkg/jwt"
	"doctor-connect/pkg/response"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	DoctorIDKey contextKey = "doctor_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
}

func NewAuthMiddleware(jwtService *jwt.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate rejects requests without a valid Bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Optional attaches the caller's identity when a valid token is present and
// passes every other request through untouched.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenString, ok := bearerToken(r.Header.Get("Authorization")); ok {
			if claims, err := m.jwtService.ValidateToken(tokenString); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, RoleKey, entity.UserRole(claims.Role))
	if claims.DoctorID != nil {
		ctx = context.WithValue(ctx, DoctorIDKey, *claims.DoctorID)
	}
	return ctx
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetRoleFromContext extracts role from context
func GetRoleFromContext(ctx context.Context) (entity.UserRole, bool) {
	role, ok := ctx.Value(RoleKey).(entity.UserRole)
	return role, ok
}

// GetDoctorIDFromContext extracts the linked doctor ID of a doctor account
func GetDoctorIDFromContext(ctx context.Context) (int, bool) {
	doctorID, ok := ctx.Value(DoctorIDKey).(int)
	return doctorID, ok
}
