package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/databases"
)

// TokenTTL is how long an issued credential stays valid
const TokenTTL = 8 * time.Hour

// Claims binds a user identity and role to a signed, time-limited token
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// MiddlewareDB is a struct that holds the database and signing secret for
// the auth middleware
type MiddlewareDB struct {
	DB     databases.UserDatabase
	Secret []byte
}

// IssueToken returns a signed HS256 token binding {userId, role} for
// TokenTTL
func (m MiddlewareDB) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

// ParseToken validates a signed token and returns its claims
func (m MiddlewareDB) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Middleware resolves the bearer credential to a user and attaches the
// identity to the request context. Missing, invalid and expired tokens
// all fail with 401; role checks happen in the handlers and fail with
// 403.
func (m MiddlewareDB) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			unauthorized(w, r)
			return
		}

		claims, err := m.ParseToken(tokenString)
		if err != nil {
			zap.S().Debugw("token rejected", "url", r.URL.Path, "error", err)
			unauthorized(w, r)
			return
		}

		ctx, cancel := WithQueryTimeout(r.Context())
		defer cancel()

		user, err := m.DB.FindOne(ctx, bson.M{"userId": claims.UserID})
		if err != nil {
			zap.S().Debugw("token user not found", "userId", claims.UserID)
			unauthorized(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), user)))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	zap.S().Errorw("unauthorized",
		"url", r.URL)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Authentication failed",
	})
}
