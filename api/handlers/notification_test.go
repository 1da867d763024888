package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
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

type recordingPublisher struct {
	published []models.Notification
}

func (p *recordingPublisher) Publish(userID string, notification models.Notification) {
	p.published = append(p.published, notification)
}

func TestNotifier_NotifyPersistsBeforePublish(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	publisher := &recordingPublisher{}

	var insertedBeforePublish bool
	mockNotificationDB.On("InsertOne", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			insertedBeforePublish = len(publisher.published) == 0
		}).
		Return("inserted-id", nil)

	n := &handlers.Notifier{NDB: mockNotificationDB, Publishers: []handlers.Publisher{publisher}}

	notification, err := n.Notify(context.Background(), "u-1", "Hearing Updated", "details", models.NotificationTypeHearing, "h-1")
	assert.NoError(t, err)
	assert.True(t, insertedBeforePublish, "the durable record is written before any live delivery")
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, notification.NotificationID, publisher.published[0].NotificationID)
	assert.False(t, notification.IsRead)
}

func TestNotifier_NotifyInsertFailureSkipsPublish(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	publisher := &recordingPublisher{}

	mockNotificationDB.On("InsertOne", mock.Anything, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	n := &handlers.Notifier{NDB: mockNotificationDB, Publishers: []handlers.Publisher{publisher}}

	_, err := n.Notify(context.Background(), "u-1", "Hearing Updated", "details", models.NotificationTypeHearing, "h-1")
	assert.Error(t, err)
	assert.Empty(t, publisher.published)
}

func TestNotifier_NotifyMissingFields(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	n := &handlers.Notifier{NDB: mockNotificationDB}

	_, err := n.Notify(context.Background(), "", "title", "message", models.NotificationTypeGeneral, "")
	assert.Error(t, err)
	mockNotificationDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestNotifier_NotifyOfflineRecipientStillRecorded(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	mockNotificationDB.On("InsertOne", mock.Anything, mock.Anything).Return("inserted-id", nil)

	// no publishers registered at all
	n := &handlers.Notifier{NDB: mockNotificationDB}

	notification, err := n.Notify(context.Background(), "u-offline", "Hearing Today", "details", models.NotificationTypeHearing, "h-1")
	assert.NoError(t, err)
	assert.Equal(t, "u-offline", notification.UserID)
	mockNotificationDB.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestNotification_NotificationsHandler(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	mockNotificationDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Notification{{NotificationID: "n-1", UserID: "u-1"}}, nil)

	nh := handlers.Notification{DB: mockNotificationDB}

	req := authedRequest("GET", "/api/notifications", nil, &models.User{UserID: "u-1", Role: models.RoleLawyer})

	rr := httptest.NewRecorder()
	http.HandlerFunc(nh.NotificationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []models.Notification `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestNotification_MarkNotificationReadHandlerNotOwner(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	// owner scoping lives in the filter, so another user matches nothing
	mockNotificationDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	nh := handlers.Notification{DB: mockNotificationDB}

	req := authedRequest("PUT", "/api/notifications/n-1/read", nil, &models.User{UserID: "u-other", Role: models.RoleLawyer})
	req = mux.SetURLVars(req, map[string]string{"notification_id": "n-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(nh.MarkNotificationReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotification_MarkNotificationReadHandlerIdempotent(t *testing.T) {
	mockNotificationDB := &mocks.NotificationDatabase{}
	// second read of an already-read notification matches but modifies nothing
	mockNotificationDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 0}, nil)
	mockNotificationDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.Notification{NotificationID: "n-1", UserID: "u-1", IsRead: true}, nil)

	nh := handlers.Notification{DB: mockNotificationDB}

	req := authedRequest("PUT", "/api/notifications/n-1/read", nil, &models.User{UserID: "u-1", Role: models.RoleLawyer})
	req = mux.SetURLVars(req, map[string]string{"notification_id": "n-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(nh.MarkNotificationReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    models.Notification `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsRead)
}
