package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

const bcryptCost = 12

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Auth handles registration, login and identity resolution
type Auth struct {
	DB databases.UserDatabase
	M  api.MiddlewareDB
}

// RegisterHandler creates a new user account and returns a signed token
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Username == "" || req.Password == "" || req.Role == "" || req.Name == "" || req.Email == "" {
		config.ErrorStatus("All required fields are missing", http.StatusBadRequest, w, nil)
		return
	}
	if len(req.Password) < 8 {
		config.ErrorStatus("Password must be at least 8 characters", http.StatusBadRequest, w, nil)
		return
	}
	if !models.ValidRole(req.Role) {
		config.ErrorStatus("Role must be one of: judge, lawyer, staff", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	email := strings.TrimSpace(strings.ToLower(req.Email))

	count, err := a.DB.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"username": req.Username},
		{"email": email},
	}})
	if err != nil {
		config.ErrorStatus("Registration failed. Please try again.", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("User already exists", http.StatusBadRequest, w, nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		config.ErrorStatus("Registration failed. Please try again.", http.StatusInternalServerError, w, err)
		return
	}

	user := models.User{
		UserID:    uuid.New().String(),
		Username:  req.Username,
		Password:  string(hash),
		Role:      req.Role,
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := a.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("Registration failed. Please try again.", http.StatusInternalServerError, w, err)
		return
	}

	token, err := a.M.IssueToken(user.UserID, user.Role)
	if err != nil {
		config.ErrorStatus("Registration failed. Please try again.", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// LoginHandler verifies credentials and returns a signed token
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		config.ErrorStatus("Username and password are required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.DB.FindOne(ctx, bson.M{"username": req.Username})
	if err != nil {
		config.ErrorStatus("Invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("Invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	token, err := a.M.IssueToken(user.UserID, user.Role)
	if err != nil {
		config.ErrorStatus("Login failed. Please try again.", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.AuthResponse{
		Success: true,
		Token:   token,
		User:    *user,
	})
}

// MeHandler returns the identity resolved from the bearer credential
func (a Auth) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())

	config.OKStatus(identity, http.StatusOK, w)
}

// LawyersHandler lists all lawyer identities. Judges only; used when
// assigning lawyers to a hearing.
func (a Auth) LawyersHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	if identity.Role != models.RoleJudge {
		config.ErrorStatus("Only judges can access lawyers list", http.StatusForbidden, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	users, err := a.DB.Find(ctx, bson.M{"role": models.RoleLawyer}, options.Find().SetProjection(bson.M{
		"userId": 1,
		"name":   1,
		"email":  1,
		"phone":  1,
	}))
	if err != nil {
		config.ErrorStatus("Failed to fetch lawyers", http.StatusInternalServerError, w, err)
		return
	}

	lawyers := make([]models.Lawyer, 0, len(users))
	for _, u := range users {
		lawyers = append(lawyers, models.Lawyer{
			UserID: u.UserID,
			Name:   u.Name,
			Email:  u.Email,
			Phone:  u.Phone,
		})
	}

	config.OKStatus(lawyers, http.StatusOK, w)
}
