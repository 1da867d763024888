package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

// Public serves the unauthenticated, redacted case views
type Public struct {
	CDB databases.CaseDatabase
	HDB databases.HearingDatabase
}

// PublicCasesHandler returns the newest 50 cases with only the fields
// meant for unauthenticated callers
func (p Public) PublicCasesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, err := p.CDB.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50))
	if err != nil {
		config.ErrorStatus("Failed to fetch public cases", http.StatusInternalServerError, w, err)
		return
	}

	redacted := make([]models.PublicCase, 0, len(cases))
	for _, c := range cases {
		redacted = append(redacted, models.PublicCase{
			CaseID:    c.CaseID,
			Title:     c.Title,
			Status:    c.Status,
			Priority:  c.Priority,
			CreatedAt: c.CreatedAt,
		})
	}

	config.OKStatus(redacted, http.StatusOK, w)
}

// PublicCaseByIDHandler returns a case and its hearings with redacted
// hearing fields. No authentication required and no upload capability
// exposed.
func (p Public) PublicCaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	courtCase, err := p.CDB.FindOne(ctx, bson.M{"caseId": caseID})
	if err != nil {
		config.ErrorStatus("Case not found", http.StatusNotFound, w, err)
		return
	}

	hearings, err := p.HDB.Find(ctx, bson.M{"caseId": caseID},
		options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		config.ErrorStatus("Failed to fetch public case details", http.StatusInternalServerError, w, err)
		return
	}

	redacted := make([]models.PublicHearing, 0, len(hearings))
	for _, h := range hearings {
		redacted = append(redacted, models.PublicHearing{
			CaseTitle:   h.CaseTitle,
			Date:        h.Date,
			StartTime:   h.StartTime,
			EndTime:     h.EndTime,
			JudgeName:   h.JudgeName,
			LawyerNames: h.LawyerNames,
			Status:      h.Status,
		})
	}

	// same flat shape as the authenticated case detail
	config.OKStatus(struct {
		models.Case
		Hearings []models.PublicHearing `json:"hearings"`
	}{Case: *courtCase, Hearings: redacted}, http.StatusOK, w)
}
