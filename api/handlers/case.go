package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

type createCaseRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    string         `json:"priority"`
	Parties     []models.Party `json:"parties"`
}

type updateCaseRequest struct {
	Status string `json:"status"`
}

type addDocumentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CourtCase handles case-related requests
type CourtCase struct {
	DB  databases.CaseDatabase
	HDB databases.HearingDatabase
}

// CasesHandler lists cases filtered by the caller's role: judges and
// lawyers never see completed cases, staff see everything
func (cc CourtCase) CasesHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())

	filter := bson.M{}
	if identity.Role == models.RoleJudge || identity.Role == models.RoleLawyer {
		filter["status"] = bson.M{"$ne": models.CaseStatusCompleted}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, err := cc.DB.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("Failed to fetch cases", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(cases, http.StatusOK, w)
}

// CreateCaseHandler creates a new case. Staff only; status always
// starts at pending.
func (cc CourtCase) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	if identity.Role != models.RoleStaff {
		config.ErrorStatus("Only staff can create cases", http.StatusForbidden, w, nil)
		return
	}

	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Title == "" || req.Description == "" || req.Priority == "" || len(req.Parties) == 0 {
		config.ErrorStatus("Missing required fields", http.StatusBadRequest, w, nil)
		return
	}
	if !models.ValidCasePriority(req.Priority) {
		config.ErrorStatus("Invalid priority. Must be one of: low, medium, high, urgent", http.StatusBadRequest, w, nil)
		return
	}
	for _, p := range req.Parties {
		if p.Name == "" || p.Role == "" {
			config.ErrorStatus("Each party requires a name and role", http.StatusBadRequest, w, nil)
			return
		}
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	courtCase := models.Case{
		CaseID:      uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.CaseStatusPending,
		Priority:    req.Priority,
		Parties:     req.Parties,
		Documents:   []models.Document{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := cc.DB.InsertOne(ctx, courtCase); err != nil {
		config.ErrorStatus("Failed to create case", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(courtCase, http.StatusCreated, w)
}

// CaseByIDHandler returns a case together with its hearings sorted by
// date
func (cc CourtCase) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	courtCase, err := cc.DB.FindOne(ctx, bson.M{"caseId": caseID})
	if err != nil {
		config.ErrorStatus("Case not found", http.StatusNotFound, w, err)
		return
	}

	hearings, err := cc.HDB.Find(ctx, bson.M{"caseId": caseID}, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		config.ErrorStatus("Failed to fetch case details", http.StatusInternalServerError, w, err)
		return
	}

	// case fields sit at the top level of data, hearings alongside them
	config.OKStatus(struct {
		models.Case
		Hearings []models.Hearing `json:"hearings"`
	}{Case: *courtCase, Hearings: hearings}, http.StatusOK, w)
}

// UpdateCaseHandler updates a case status. Staff only.
func (cc CourtCase) UpdateCaseHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	if identity.Role != models.RoleStaff {
		config.ErrorStatus("Only staff can update cases", http.StatusForbidden, w, nil)
		return
	}

	caseID := mux.Vars(r)["case_id"]

	var req updateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if !models.ValidCaseStatus(req.Status) {
		config.ErrorStatus("Invalid status. Must be one of: pending, in_progress, completed, dismissed", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := cc.DB.UpdateOne(ctx, bson.M{"caseId": caseID}, bson.M{"$set": bson.M{
		"status":    req.Status,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("Failed to update case status", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("Case not found", http.StatusNotFound, w, nil)
		return
	}

	courtCase, err := cc.DB.FindOne(ctx, bson.M{"caseId": caseID})
	if err != nil {
		config.ErrorStatus("Failed to update case status", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.Response{
		Success: true,
		Data:    courtCase,
		Message: fmt.Sprintf("Case status updated to %s", req.Status),
	})
}

// AddDocumentHandler appends a document reference to a case. Documents
// are append-only.
func (cc CourtCase) AddDocumentHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Name == "" || req.URL == "" {
		config.ErrorStatus("Document name and URL are required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc := models.Document{
		Name:       req.Name,
		URL:        req.URL,
		UploadedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	res, err := cc.DB.UpdateOne(ctx, bson.M{"caseId": caseID}, bson.M{"$push": bson.M{"documents": doc}})
	if err != nil {
		config.ErrorStatus("Failed to upload document", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("Case not found", http.StatusNotFound, w, nil)
		return
	}

	courtCase, err := cc.DB.FindOne(ctx, bson.M{"caseId": caseID})
	if err != nil {
		config.ErrorStatus("Failed to upload document", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(courtCase, http.StatusOK, w)
}
