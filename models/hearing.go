package models

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hearing statuses
const (
	HearingStatusScheduled = "scheduled"
	HearingStatusCompleted = "completed"
	HearingStatusCancelled = "cancelled"
	HearingStatusPostponed = "postponed"
)

// timePattern matches 24h HH:MM times
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Hearing holds the structure for the hearings collection in mongo.
// caseTitle, judgeName and lawyerNames are snapshots taken at
// assignment time, not live joins; lawyerIds and lawyerNames are
// parallel arrays.
type Hearing struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	HearingID   string             `json:"hearingId" bson:"hearingId"`
	CaseID      string             `json:"caseId" bson:"caseId"`
	CaseTitle   string             `json:"caseTitle" bson:"caseTitle"`
	Date        primitive.DateTime `json:"date" bson:"date"`
	StartTime   string             `json:"startTime" bson:"startTime"`
	EndTime     string             `json:"endTime" bson:"endTime"`
	JudgeID     string             `json:"judgeId" bson:"judgeId"`
	JudgeName   string             `json:"judgeName" bson:"judgeName"`
	LawyerIDs   []string           `json:"lawyerIds" bson:"lawyerIds"`
	LawyerNames []string           `json:"lawyerNames" bson:"lawyerNames"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// PublicHearing is the redacted hearing projection exposed on the
// unauthenticated case detail view
type PublicHearing struct {
	CaseTitle   string             `json:"caseTitle" bson:"caseTitle"`
	Date        primitive.DateTime `json:"date" bson:"date"`
	StartTime   string             `json:"startTime" bson:"startTime"`
	EndTime     string             `json:"endTime" bson:"endTime"`
	JudgeName   string             `json:"judgeName" bson:"judgeName"`
	LawyerNames []string           `json:"lawyerNames" bson:"lawyerNames"`
	Status      string             `json:"status" bson:"status"`
}

// ValidHearingStatus reports whether status is one of the enumerated
// hearing statuses
func ValidHearingStatus(status string) bool {
	switch status {
	case HearingStatusScheduled, HearingStatusCompleted, HearingStatusCancelled, HearingStatusPostponed:
		return true
	}
	return false
}

// ValidTime reports whether t matches the 24h HH:MM pattern
func ValidTime(t string) bool {
	return timePattern.MatchString(t)
}
