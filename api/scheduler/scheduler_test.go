package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/court-management-api/databases/mocks"
	"github.com/linesmerrill/court-management-api/models"
)

type countingNotifier struct {
	recipients []string
}

func (c *countingNotifier) Notify(ctx context.Context, userID, title, message, notificationType, relatedID string) (*models.Notification, error) {
	c.recipients = append(c.recipients, userID)
	return &models.Notification{UserID: userID, Title: title}, nil
}

func TestScheduler_SendHearingRemindersNotifiesJudgeAndLawyers(t *testing.T) {
	mockHearingDB := &mocks.HearingDatabase{}
	mockUserDB := &mocks.UserDatabase{}
	notifier := &countingNotifier{}

	mockHearingDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Hearing{{
			HearingID: "h-1",
			CaseTitle: "State v. Doe",
			JudgeID:   "j-1",
			LawyerIDs: []string{"l-1", "l-2"},
			StartTime: "09:00",
			EndTime:   "10:00",
			Status:    models.HearingStatusScheduled,
		}}, nil)
	// no email on file keeps the job notification-only
	mockUserDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	s := New(mockHearingDB, mockUserDB, notifier)
	s.sendHearingReminders()

	assert.Equal(t, []string{"j-1", "l-1", "l-2"}, notifier.recipients)

	filter := mockHearingDB.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, models.HearingStatusScheduled, filter["status"])
	assert.Contains(t, filter, "date")
}

func TestScheduler_SendHearingRemindersNoHearings(t *testing.T) {
	mockHearingDB := &mocks.HearingDatabase{}
	mockUserDB := &mocks.UserDatabase{}
	notifier := &countingNotifier{}

	mockHearingDB.On("Find", mock.Anything, mock.Anything).Return([]models.Hearing{}, nil)

	s := New(mockHearingDB, mockUserDB, notifier)
	s.sendHearingReminders()

	assert.Empty(t, notifier.recipients)
	mockUserDB.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}
