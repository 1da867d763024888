package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

// Notifier records an in-app notification and delivers it live when the
// recipient has an open connection. Satisfied by handlers.Notifier.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notificationType, relatedID string) (*models.Notification, error)
}

// Scheduler handles periodic background jobs for hearing reminders
type Scheduler struct {
	cron     *cron.Cron
	HDB      databases.HearingDatabase
	UDB      databases.UserDatabase
	Notifier Notifier
}

// New creates a new scheduler instance
func New(hDB databases.HearingDatabase, uDB databases.UserDatabase, notifier Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		HDB:      hDB,
		UDB:      uDB,
		Notifier: notifier,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Send same-day hearing reminders daily at 7 AM UTC
	_, err := s.cron.AddFunc("0 7 * * *", s.sendHearingReminders)
	if err != nil {
		zap.S().Errorw("failed to register hearing reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Hearing reminder scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Hearing reminder scheduler stopped")
}

// sendHearingReminders notifies the judge and every assigned lawyer of
// each hearing still scheduled for the current UTC day
func (s *Scheduler) sendHearingReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)

	filter := bson.M{
		"status": models.HearingStatusScheduled,
		"date": bson.M{
			"$gte": primitive.NewDateTimeFromTime(dayStart),
			"$lte": primitive.NewDateTimeFromTime(dayEnd),
		},
	}

	hearings, err := s.HDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find hearings for reminders", "error", err)
		return
	}

	sent := 0
	for _, hearing := range hearings {
		recipients := append([]string{hearing.JudgeID}, hearing.LawyerIDs...)
		message := fmt.Sprintf("Reminder: hearing for case %s today from %s to %s",
			hearing.CaseTitle, hearing.StartTime, hearing.EndTime)

		for _, userID := range recipients {
			_, err := s.Notifier.Notify(ctx, userID, "Hearing Today", message,
				models.NotificationTypeHearing, hearing.HearingID)
			if err != nil {
				zap.S().Errorw("failed to record hearing reminder",
					"error", err, "hearingId", hearing.HearingID, "userId", userID)
				continue
			}
			s.sendReminderEmail(ctx, userID, hearing)
			sent++
		}
	}

	zap.S().Infow("Hearing reminder job complete",
		"hearings", len(hearings),
		"remindersSent", sent,
	)
}

// sendReminderEmail emails the reminder when the recipient has an email
// on file. Delivery failures are logged, never fatal.
func (s *Scheduler) sendReminderEmail(ctx context.Context, userID string, hearing models.Hearing) {
	user, err := s.UDB.FindOne(ctx, bson.M{"userId": userID})
	if err != nil || user.Email == "" {
		return
	}

	subject := "Hearing Reminder - Court Management"
	plainText := fmt.Sprintf("You have a hearing for case %s today from %s to %s.",
		hearing.CaseTitle, hearing.StartTime, hearing.EndTime)
	htmlContent := fmt.Sprintf("<p>You have a hearing for case <strong>%s</strong> today from %s to %s.</p>",
		hearing.CaseTitle, hearing.StartTime, hearing.EndTime)

	if err := s.sendEmail(user.Email, user.Name, subject, htmlContent, plainText); err != nil {
		zap.S().Errorw("failed to send hearing reminder email",
			"error", err, "hearingId", hearing.HearingID, "userId", userID)
	}
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("Court Management", "no-reply@court-management.example.com")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
