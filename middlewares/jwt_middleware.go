package middlewares

import (
	"context"
	"net/http"
	"strings"

	"skillsmatrix/utils"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the caller as resolved from the bearer token.
type Identity struct {
	Username string
	Email    string
	Role     string
}

type contextKey string

const UserContextKey contextKey = "user"

func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.HandleMessageResponse(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.HandleMessageResponse(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil {
				utils.HandleMessageResponse(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if claims, ok := token.Claims.(*Claims); ok && token.Valid {
				id := Identity{
					Username: claims.Username,
					Email:    claims.Email,
					Role:     strings.ToLower(claims.Role),
				}
				ctx := context.WithValue(r.Context(), UserContextKey, id)
				next.ServeHTTP(w, r.WithContext(ctx))
			} else {
				utils.HandleMessageResponse(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}
		})
	}
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(UserContextKey).(Identity)
	return id, ok
}

// GetUsernameFromContext returns the caller's username, falling back to the
// email claim.
func GetUsernameFromContext(ctx context.Context) string {
	if id, ok := GetIdentity(ctx); ok {
		if id.Username != "" {
			return id.Username
		}
		return id.Email
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, UserContextKey, id)
}

// RequireRoles rejects callers whose role is not one of roles. It must run
// after JWTMiddleware.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetIdentity(r.Context())
			if !ok {
				utils.HandleMessageResponse(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[id.Role]; !ok {
				utils.HandleMessageResponse(w, "Insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
