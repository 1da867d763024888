package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/court-management-api/api/handlers"
	"github.com/linesmerrill/court-management-api/databases/mocks"
	"github.com/linesmerrill/court-management-api/models"
)

func TestPublic_PublicCasesHandlerRedactsParties(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Case{{
			CaseID:   "c-1",
			Title:    "State v. Doe",
			Status:   models.CaseStatusDismissed,
			Priority: "high",
			Parties:  []models.Party{{Name: "John Doe", Role: "defendant"}},
			Documents: []models.Document{
				{Name: "exhibit-a.pdf", URL: "https://cdn.example.com/exhibit-a.pdf"},
			},
		}}, nil)

	p := handlers.Public{CDB: mockCaseDB}

	req := httptest.NewRequest("GET", "/api/public/cases", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PublicCasesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "c-1", resp.Data[0]["caseId"])
	assert.NotContains(t, resp.Data[0], "parties")
	assert.NotContains(t, resp.Data[0], "documents")
	assert.NotContains(t, resp.Data[0], "description")
}

func TestPublic_PublicCaseByIDHandlerNotFound(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	p := handlers.Public{CDB: mockCaseDB}

	req := httptest.NewRequest("GET", "/api/public/cases/c-missing", nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-missing"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PublicCaseByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPublic_PublicCaseByIDHandlerRedactsHearings(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockHearingDB := &mocks.HearingDatabase{}

	// dismissed cases stay publicly visible
	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Case{CaseID: "c-1", Title: "State v. Doe", Status: models.CaseStatusDismissed}, nil)
	mockHearingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Hearing{{
			HearingID:   "h-1",
			CaseID:      "c-1",
			CaseTitle:   "State v. Doe",
			JudgeID:     "j-1",
			JudgeName:   "Judge Judy",
			LawyerIDs:   []string{"l-1"},
			LawyerNames: []string{"Ada"},
			StartTime:   "09:00",
			EndTime:     "10:00",
			Status:      models.HearingStatusScheduled,
		}}, nil)

	p := handlers.Public{CDB: mockCaseDB, HDB: mockHearingDB}

	req := httptest.NewRequest("GET", "/api/public/cases/c-1", nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PublicCaseByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			CaseID   string                   `json:"caseId"`
			Hearings []map[string]interface{} `json:"hearings"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	// case fields are spread at the top of data, not nested under "case"
	assert.Equal(t, "c-1", resp.Data.CaseID)
	assert.NotContains(t, rr.Body.String(), `"case":`)
	assert.Len(t, resp.Data.Hearings, 1)

	hearing := resp.Data.Hearings[0]
	assert.Equal(t, "Judge Judy", hearing["judgeName"])
	assert.NotContains(t, hearing, "hearingId")
	assert.NotContains(t, hearing, "judgeId")
	assert.NotContains(t, hearing, "lawyerIds")
}
