package middleware

import (
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	log       *logrus.Entry
}

func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		log:       logging.For("auth"),
	}
}

// RequireRole verifies the bearer token and admits callers holding one of
// roles. The caller's session (without society) and raw token are put on the
// request context.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing Authorization header")
			deny(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.log.Debug("invalid Authorization header format")
			deny(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			m.log.WithError(err).Debug("token rejected")
			deny(w, http.StatusUnauthorized, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			deny(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			m.log.Debugf("missing or invalid 'sub' claim: %v", claims["sub"])
			deny(w, http.StatusUnauthorized, "invalid token: missing user ID")
			return
		}

		roleClaim, ok := claims["role"].(string)
		if !ok || roleClaim == "" {
			m.log.Debugf("missing or invalid 'role' claim: %v", claims["role"])
			deny(w, http.StatusUnauthorized, "invalid token: missing role")
			return
		}
		userRole := domain.Role(roleClaim)

		if !hasRole(roles, userRole) {
			m.log.WithFields(logrus.Fields{
				"user_id":  userID,
				"role":     userRole,
				"required": roles,
			}).Warn("role mismatch")
			deny(w, http.StatusForbidden, "forbidden")
			return
		}

		ctx := domain.WithSession(r.Context(), domain.Session{
			UserID: userID,
			Role:   userRole,
			Token:  tokenString,
		})
		ctx = domain.WithBearer(ctx, tokenString)

		next(w, r.WithContext(ctx))
	}
}

func hasRole(allowed []domain.Role, role domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
