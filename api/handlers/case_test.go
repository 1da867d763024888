package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/court-management-api/api/handlers"
	"github.com/linesmerrill/court-management-api/databases/mocks"
	"github.com/linesmerrill/court-management-api/models"
)

func TestCase_CreateCaseHandlerNonStaff(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"title":"State v. Doe","description":"theft","priority":"high","parties":[{"name":"John Doe","role":"defendant"}]}`)
	req := authedRequest("POST", "/api/cases", body, &models.User{UserID: "l-1", Role: models.RoleLawyer})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CreateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)

	var resp models.Response
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Only staff can create cases", resp.Message)
	mockCaseDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCase_CreateCaseHandlerMissingPartyFields(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"title":"State v. Doe","description":"theft","priority":"high","parties":[{"name":"John Doe"}]}`)
	req := authedRequest("POST", "/api/cases", body, &models.User{UserID: "s-1", Role: models.RoleStaff})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CreateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockCaseDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCase_CreateCaseHandlerSuccess(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("InsertOne", mock.Anything, mock.Anything).Return("inserted-id", nil)

	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"title":"State v. Doe","description":"theft","priority":"high","parties":[{"name":"John Doe","role":"defendant"}]}`)
	req := authedRequest("POST", "/api/cases", body, &models.User{UserID: "s-1", Role: models.RoleStaff})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CreateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	inserted := mockCaseDB.Calls[0].Arguments.Get(1).(models.Case)
	assert.Equal(t, models.CaseStatusPending, inserted.Status)
	assert.NotEmpty(t, inserted.CaseID)
	assert.Empty(t, inserted.Documents)
}

func TestCase_CasesHandlerLawyerFilterExcludesCompleted(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Case{}, nil)

	cc := handlers.CourtCase{DB: mockCaseDB}

	req := authedRequest("GET", "/api/cases", nil, &models.User{UserID: "l-1", Role: models.RoleLawyer})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CasesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	filter := mockCaseDB.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, bson.M{"status": bson.M{"$ne": models.CaseStatusCompleted}}, filter)
}

func TestCase_CasesHandlerStaffSeesEverything(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Case{}, nil)

	cc := handlers.CourtCase{DB: mockCaseDB}

	req := authedRequest("GET", "/api/cases", nil, &models.User{UserID: "s-1", Role: models.RoleStaff})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CasesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	filter := mockCaseDB.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, bson.M{}, filter)
}

func TestCase_UpdateCaseHandlerInvalidStatus(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"status":"archived"}`)
	req := authedRequest("PUT", "/api/cases/c-1", body, &models.User{UserID: "s-1", Role: models.RoleStaff})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.UpdateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockCaseDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestCase_UpdateCaseHandlerNotFound(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"status":"completed"}`)
	req := authedRequest("PUT", "/api/cases/c-missing", body, &models.User{UserID: "s-1", Role: models.RoleStaff})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-missing"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.UpdateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCase_UpdateCaseHandlerSuccess(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Case{CaseID: "c-1", Status: models.CaseStatusCompleted}, nil)

	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"status":"completed"}`)
	req := authedRequest("PUT", "/api/cases/c-1", body, &models.User{UserID: "s-1", Role: models.RoleStaff})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.UpdateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.Response
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Case status updated to completed", resp.Message)
}

func TestCase_AddDocumentHandlerMissingFields(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"name":"exhibit-a.pdf"}`)
	req := authedRequest("POST", "/api/cases/c-1/documents", body, &models.User{UserID: "s-1", Role: models.RoleStaff})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.AddDocumentHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockCaseDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestCase_AddDocumentHandlerSuccess(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Case{CaseID: "c-1", Documents: []models.Document{{Name: "exhibit-a.pdf", URL: "https://cdn.example.com/exhibit-a.pdf"}}}, nil)

	cc := handlers.CourtCase{DB: mockCaseDB}

	body := []byte(`{"name":"exhibit-a.pdf","url":"https://cdn.example.com/exhibit-a.pdf"}`)
	req := authedRequest("POST", "/api/cases/c-1/documents", body, &models.User{UserID: "l-1", Role: models.RoleLawyer})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.AddDocumentHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	update := mockCaseDB.Calls[0].Arguments.Get(2).(bson.M)
	push, ok := update["$push"].(bson.M)
	assert.True(t, ok, "documents are append-only, so the update must be a $push")
	assert.Contains(t, push, "documents")
}

func TestCase_CaseByIDHandlerNotFound(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).
		Return(nil, mongo.ErrNoDocuments)

	cc := handlers.CourtCase{DB: mockCaseDB}

	req := authedRequest("GET", "/api/cases/c-missing", nil, &models.User{UserID: "s-1", Role: models.RoleStaff})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-missing"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CaseByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCase_CaseByIDHandlerFlattensCaseFields(t *testing.T) {
	mockCaseDB := &mocks.CaseDatabase{}
	mockHearingDB := &mocks.HearingDatabase{}

	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Case{CaseID: "c-1", Title: "State v. Doe", Status: models.CaseStatusPending}, nil)
	mockHearingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Hearing{{HearingID: "h-1", CaseID: "c-1"}}, nil)

	cc := handlers.CourtCase{DB: mockCaseDB, HDB: mockHearingDB}

	req := authedRequest("GET", "/api/cases/c-1", nil, &models.User{UserID: "s-1", Role: models.RoleStaff})
	req = mux.SetURLVars(req, map[string]string{"case_id": "c-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(cc.CaseByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	// case fields sit directly in data, not under a nested "case" key
	assert.Equal(t, "c-1", resp.Data["caseId"])
	assert.Equal(t, "State v. Doe", resp.Data["title"])
	assert.Contains(t, resp.Data, "hearings")
	assert.NotContains(t, resp.Data, "case")
	assert.Len(t, resp.Data["hearings"], 1)
}
