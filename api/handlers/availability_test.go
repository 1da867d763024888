package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/api/handlers"
	"github.com/linesmerrill/court-management-api/databases/mocks"
	"github.com/linesmerrill/court-management-api/models"
)

func TestAvailability_SaveAvailabilityHandlerBadSlotTime(t *testing.T) {
	mockAvailabilityDB := &mocks.AvailabilityDatabase{}
	av := handlers.Availability{DB: mockAvailabilityDB}

	body := []byte(`{"date":"2026-09-01","timeSlots":[{"startTime":"25:00","endTime":"10:00"}]}`)
	req := authedRequest("POST", "/api/availability", body, &models.User{UserID: "j-1", Role: models.RoleJudge})

	rr := httptest.NewRecorder()
	http.HandlerFunc(av.SaveAvailabilityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockAvailabilityDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailability_SaveAvailabilityHandlerBadSlotStatus(t *testing.T) {
	mockAvailabilityDB := &mocks.AvailabilityDatabase{}
	av := handlers.Availability{DB: mockAvailabilityDB}

	body := []byte(`{"date":"2026-09-01","timeSlots":[{"startTime":"09:00","endTime":"10:00","status":"maybe"}]}`)
	req := authedRequest("POST", "/api/availability", body, &models.User{UserID: "j-1", Role: models.RoleJudge})

	rr := httptest.NewRecorder()
	http.HandlerFunc(av.SaveAvailabilityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAvailability_SaveAvailabilityHandlerUpserts(t *testing.T) {
	mockAvailabilityDB := &mocks.AvailabilityDatabase{}
	saved := &models.Availability{
		AvailabilityID: "a-1",
		UserID:         "j-1",
		TimeSlots:      []models.TimeSlot{{StartTime: "09:00", EndTime: "10:00", Status: models.SlotStatusAvailable}},
	}
	mockAvailabilityDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	mockAvailabilityDB.On("FindOne", mock.Anything, mock.Anything).Return(saved, nil)

	av := handlers.Availability{DB: mockAvailabilityDB}

	// status omitted, defaults to available
	body := []byte(`{"date":"2026-09-01","timeSlots":[{"startTime":"09:00","endTime":"10:00"}]}`)
	req := authedRequest("POST", "/api/availability", body, &models.User{UserID: "j-1", Role: models.RoleJudge})

	rr := httptest.NewRecorder()
	http.HandlerFunc(av.SaveAvailabilityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	call := mockAvailabilityDB.Calls[0]
	filter := call.Arguments.Get(1).(bson.M)
	assert.Equal(t, "j-1", filter["userId"], "one grid per (userId, date)")

	update := call.Arguments.Get(2).(bson.M)
	set := update["$set"].(bson.M)
	slots := set["timeSlots"].([]models.TimeSlot)
	assert.Equal(t, models.SlotStatusAvailable, slots[0].Status)
	assert.Contains(t, update, "$setOnInsert")

	opts := call.Arguments.Get(3).(*options.UpdateOptions)
	assert.True(t, *opts.Upsert, "saving again must replace, never duplicate")
}

func TestAvailability_AvailabilityHandlerScopedToCaller(t *testing.T) {
	mockAvailabilityDB := &mocks.AvailabilityDatabase{}
	mockAvailabilityDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Availability{}, nil)

	av := handlers.Availability{DB: mockAvailabilityDB}

	req := authedRequest("GET", "/api/availability", nil, &models.User{UserID: "l-1", Role: models.RoleLawyer})

	rr := httptest.NewRecorder()
	http.HandlerFunc(av.AvailabilityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	filter := mockAvailabilityDB.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, bson.M{"userId": "l-1"}, filter)

	var resp models.Response
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
