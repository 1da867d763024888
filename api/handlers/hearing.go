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
	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

type createHearingRequest struct {
	CaseID    string   `json:"caseId"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	LawyerIDs []string `json:"lawyerIds"`
}

type updateHearingRequest struct {
	Status    string   `json:"status"`
	LawyerIDs []string `json:"lawyerIds"`
}

// Hearing handles hearing scheduling requests
type Hearing struct {
	DB       databases.HearingDatabase
	CDB      databases.CaseDatabase
	UDB      databases.UserDatabase
	Notifier NotifierService
}

// parseHearingDate accepts RFC3339 or a bare calendar date
func parseHearingDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// resolveLawyers resolves every supplied id to a lawyer-role user. The
// whole set resolves or the call fails; there is no partial assignment.
func (h Hearing) resolveLawyers(r *http.Request, lawyerIDs []string) ([]string, error) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lawyers, err := h.UDB.Find(ctx, bson.M{
		"userId": bson.M{"$in": lawyerIDs},
		"role":   models.RoleLawyer,
	})
	if err != nil {
		return nil, err
	}
	if len(lawyers) != len(lawyerIDs) {
		return nil, fmt.Errorf("one or more lawyers not found")
	}

	// keep lawyerNames parallel to lawyerIds
	byID := make(map[string]string, len(lawyers))
	for _, l := range lawyers {
		byID[l.UserID] = l.Name
	}
	names := make([]string, 0, len(lawyerIDs))
	for _, id := range lawyerIDs {
		names = append(names, byID[id])
	}
	return names, nil
}

// CreateHearingHandler schedules a hearing for an existing case. Judges
// only. Every supplied lawyer id must resolve to a lawyer or nothing is
// persisted; each assigned lawyer is notified after the hearing is
// saved. Overlaps with the judge's other hearings are not checked.
func (h Hearing) CreateHearingHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	if identity.Role != models.RoleJudge {
		config.ErrorStatus("Only judges can create hearings", http.StatusForbidden, w, nil)
		return
	}

	var req createHearingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.CaseID == "" || req.Date == "" || req.StartTime == "" || req.EndTime == "" || req.LawyerIDs == nil {
		config.ErrorStatus("Missing required fields", http.StatusBadRequest, w, nil)
		return
	}
	if !models.ValidTime(req.StartTime) || !models.ValidTime(req.EndTime) {
		config.ErrorStatus("Invalid time format. Use HH:MM", http.StatusBadRequest, w, nil)
		return
	}

	date, err := parseHearingDate(req.Date)
	if err != nil {
		config.ErrorStatus("Invalid date", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	courtCase, err := h.CDB.FindOne(ctx, bson.M{"caseId": req.CaseID})
	if err != nil {
		config.ErrorStatus("Case not found", http.StatusNotFound, w, err)
		return
	}

	lawyerNames, err := h.resolveLawyers(r, req.LawyerIDs)
	if err != nil {
		config.ErrorStatus("One or more lawyers not found", http.StatusBadRequest, w, err)
		return
	}

	hearing := models.Hearing{
		HearingID:   uuid.New().String(),
		CaseID:      req.CaseID,
		CaseTitle:   courtCase.Title,
		Date:        primitive.NewDateTimeFromTime(date),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		JudgeID:     identity.UserID,
		JudgeName:   identity.Name,
		LawyerIDs:   req.LawyerIDs,
		LawyerNames: lawyerNames,
		Status:      models.HearingStatusScheduled,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := h.DB.InsertOne(ctx, hearing); err != nil {
		config.ErrorStatus("Failed to create hearing", http.StatusInternalServerError, w, err)
		return
	}

	message := fmt.Sprintf("You've been assigned to hearing for case: %s on %s from %s to %s",
		courtCase.Title, date.Format("Jan 2, 2006"), req.StartTime, req.EndTime)
	for _, lawyerID := range req.LawyerIDs {
		if _, err := h.Notifier.Notify(ctx, lawyerID, "New Hearing Assignment", message,
			models.NotificationTypeHearing, hearing.HearingID); err != nil {
			zap.S().Errorw("failed to notify lawyer of new hearing",
				"lawyerId", lawyerID, "hearingId", hearing.HearingID, "error", err)
		}
	}

	config.OKStatus(hearing, http.StatusCreated, w)
}

// HearingsHandler lists hearings filtered by role: judges see their
// own, lawyers their assignments, staff everything
func (h Hearing) HearingsHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())

	filter := bson.M{}
	switch identity.Role {
	case models.RoleJudge:
		filter["judgeId"] = identity.UserID
	case models.RoleLawyer:
		filter["lawyerIds"] = identity.UserID
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	hearings, err := h.DB.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}).SetLimit(50))
	if err != nil {
		config.ErrorStatus("Failed to fetch hearings", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(hearings, http.StatusOK, w)
}

// HearingByIDHandler returns a single hearing. Lawyers must be
// assigned, judges must own it; staff may read any.
func (h Hearing) HearingByIDHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	hearingID := mux.Vars(r)["hearing_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	hearing, err := h.DB.FindOne(ctx, bson.M{"hearingId": hearingID})
	if err != nil {
		config.ErrorStatus("Hearing not found", http.StatusNotFound, w, err)
		return
	}

	if identity.Role == models.RoleLawyer && !contains(hearing.LawyerIDs, identity.UserID) {
		config.ErrorStatus("Unauthorized to view this hearing", http.StatusForbidden, w, nil)
		return
	}
	if identity.Role == models.RoleJudge && hearing.JudgeID != identity.UserID {
		config.ErrorStatus("Unauthorized to view this hearing", http.StatusForbidden, w, nil)
		return
	}

	config.OKStatus(hearing, http.StatusOK, w)
}

// UpdateHearingHandler applies a partial {status, lawyerIds} update.
// Judges only, and the filter is scoped to the acting judge so a
// non-owner gets a not-found, never another judge's hearing. The judge
// and every currently assigned lawyer are notified.
func (h Hearing) UpdateHearingHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	hearingID := mux.Vars(r)["hearing_id"]

	if identity.Role != models.RoleJudge {
		config.ErrorStatus("Only judges can update hearings", http.StatusForbidden, w, nil)
		return
	}

	var req updateHearingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	updateFields := bson.M{}
	if req.Status != "" && models.ValidHearingStatus(req.Status) {
		updateFields["status"] = req.Status
	}
	if req.LawyerIDs != nil {
		lawyerNames, err := h.resolveLawyers(r, req.LawyerIDs)
		if err != nil {
			config.ErrorStatus("One or more lawyers not found", http.StatusBadRequest, w, err)
			return
		}
		updateFields["lawyerIds"] = req.LawyerIDs
		updateFields["lawyerNames"] = lawyerNames
	}
	if len(updateFields) == 0 {
		config.ErrorStatus("No valid fields to update", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := h.DB.UpdateOne(ctx,
		bson.M{"hearingId": hearingID, "judgeId": identity.UserID},
		bson.M{"$set": updateFields})
	if err != nil {
		config.ErrorStatus("Failed to update hearing", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("Hearing not found or unauthorized", http.StatusNotFound, w, nil)
		return
	}

	hearing, err := h.DB.FindOne(ctx, bson.M{"hearingId": hearingID})
	if err != nil {
		config.ErrorStatus("Failed to update hearing", http.StatusInternalServerError, w, err)
		return
	}

	message := fmt.Sprintf("Hearing for case %s has been updated", hearing.CaseTitle)
	recipients := append([]string{hearing.JudgeID}, hearing.LawyerIDs...)
	for _, userID := range recipients {
		if _, err := h.Notifier.Notify(ctx, userID, "Hearing Updated", message,
			models.NotificationTypeHearing, hearing.HearingID); err != nil {
			zap.S().Errorw("failed to notify participant of hearing update",
				"userId", userID, "hearingId", hearing.HearingID, "error", err)
		}
	}

	config.OKStatus(hearing, http.StatusOK, w)
}

// DeleteHearingHandler removes a hearing. The owning judge or any staff
// member may delete; only the judge is notified.
func (h Hearing) DeleteHearingHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())
	hearingID := mux.Vars(r)["hearing_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	hearing, err := h.DB.FindOne(ctx, bson.M{"hearingId": hearingID})
	if err != nil {
		config.ErrorStatus("Hearing not found", http.StatusNotFound, w, err)
		return
	}

	if identity.Role != models.RoleStaff && hearing.JudgeID != identity.UserID {
		config.ErrorStatus("Unauthorized: Only the assigned judge or staff can delete hearings", http.StatusForbidden, w, nil)
		return
	}

	if _, err := h.DB.DeleteOne(ctx, bson.M{"hearingId": hearingID}); err != nil {
		config.ErrorStatus("Failed to delete hearing", http.StatusInternalServerError, w, err)
		return
	}

	message := fmt.Sprintf("Hearing for case %s on %s was deleted",
		hearing.CaseTitle, hearing.Date.Time().Format("Jan 2, 2006"))
	if _, err := h.Notifier.Notify(ctx, hearing.JudgeID, "Hearing Deleted", message,
		models.NotificationTypeHearing, hearing.HearingID); err != nil {
		zap.S().Errorw("failed to notify judge of hearing deletion",
			"judgeId", hearing.JudgeID, "hearingId", hearing.HearingID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.Response{
		Success: true,
		Message: "Hearing deleted successfully",
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
