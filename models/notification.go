package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification types
const (
	NotificationTypeHearing = "hearing"
	NotificationTypeCase    = "case"
	NotificationTypeGeneral = "general"
)

// Notification holds the structure for the notifications collection in
// mongo. Records are immutable once created except isRead, which flips
// to true exactly once.
type Notification struct {
	ID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	NotificationID string             `json:"notificationId" bson:"notificationId"`
	UserID         string             `json:"userId" bson:"userId"`
	Title          string             `json:"title" bson:"title"`
	Message        string             `json:"message" bson:"message"`
	Type           string             `json:"type,omitempty" bson:"type,omitempty"`
	RelatedID      string             `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	IsRead         bool               `json:"isRead" bson:"isRead"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
