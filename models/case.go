package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Case statuses
const (
	CaseStatusPending    = "pending"
	CaseStatusInProgress = "in_progress"
	CaseStatusCompleted  = "completed"
	CaseStatusDismissed  = "dismissed"
)

// Case holds the structure for the cases collection in mongo
type Case struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	CaseID      string             `json:"caseId" bson:"caseId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Status      string             `json:"status" bson:"status"`
	Priority    string             `json:"priority" bson:"priority"`
	Parties     []Party            `json:"parties" bson:"parties"`
	Documents   []Document         `json:"documents" bson:"documents"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Party is a single named party on a case
type Party struct {
	Name    string `json:"name" bson:"name"`
	Role    string `json:"role" bson:"role"`
	Contact string `json:"contact,omitempty" bson:"contact,omitempty"`
}

// Document is an appended case document reference. Documents are never
// removed once added.
type Document struct {
	Name       string             `json:"name" bson:"name"`
	URL        string             `json:"url" bson:"url"`
	UploadedAt primitive.DateTime `json:"uploadedAt" bson:"uploadedAt"`
}

// PublicCase is the redacted projection exposed on the unauthenticated
// case list
type PublicCase struct {
	CaseID    string             `json:"caseId" bson:"caseId"`
	Title     string             `json:"title" bson:"title"`
	Status    string             `json:"status" bson:"status"`
	Priority  string             `json:"priority" bson:"priority"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// ValidCaseStatus reports whether status is one of the enumerated case
// statuses
func ValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusPending, CaseStatusInProgress, CaseStatusCompleted, CaseStatusDismissed:
		return true
	}
	return false
}

// ValidCasePriority reports whether priority is one of the enumerated
// case priorities
func ValidCasePriority(priority string) bool {
	switch priority {
	case "low", "medium", "high", "urgent":
		return true
	}
	return false
}
