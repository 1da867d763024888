package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Time slot statuses
const (
	SlotStatusAvailable   = "available"
	SlotStatusUnavailable = "unavailable"
	SlotStatusBooked      = "booked"
)

// Availability holds the structure for the availabilities collection in
// mongo. At most one document exists per (userId, date); saving again
// for the same date replaces the slot grid wholesale.
type Availability struct {
	ID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	AvailabilityID string             `json:"availabilityId" bson:"availabilityId"`
	UserID         string             `json:"userId" bson:"userId"`
	UserRole       string             `json:"userRole" bson:"userRole"`
	Date           primitive.DateTime `json:"date" bson:"date"`
	TimeSlots      []TimeSlot         `json:"timeSlots" bson:"timeSlots"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// TimeSlot is a single entry in the per-date availability grid
type TimeSlot struct {
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
	Status    string `json:"status" bson:"status"`
}

// ValidSlotStatus reports whether status is one of the enumerated slot
// statuses
func ValidSlotStatus(status string) bool {
	switch status {
	case SlotStatusAvailable, SlotStatusUnavailable, SlotStatusBooked:
		return true
	}
	return false
}
