package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

type saveAvailabilityRequest struct {
	Date      string            `json:"date"`
	TimeSlots []models.TimeSlot `json:"timeSlots"`
}

// Availability handles per-user, per-date time slot requests
type Availability struct {
	DB databases.AvailabilityDatabase
}

// AvailabilityHandler lists the caller's availability, soonest first
func (av Availability) AvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	availabilities, err := av.DB.Find(ctx, bson.M{"userId": identity.UserID},
		options.Find().SetSort(bson.M{"date": 1}).SetLimit(30))
	if err != nil {
		config.ErrorStatus("Failed to fetch availability", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(availabilities, http.StatusOK, w)
}

// SaveAvailabilityHandler saves the caller's slot grid for a date. At
// most one document exists per (userId, date); saving again replaces
// the grid wholesale, never duplicates it.
func (av Availability) SaveAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	identity := api.IdentityFromContext(r.Context())

	var req saveAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Date == "" || req.TimeSlots == nil {
		config.ErrorStatus("Date and time slots are required", http.StatusBadRequest, w, nil)
		return
	}
	for i := range req.TimeSlots {
		slot := &req.TimeSlots[i]
		if !models.ValidTime(slot.StartTime) || !models.ValidTime(slot.EndTime) {
			config.ErrorStatus("Invalid time format. Use HH:MM", http.StatusBadRequest, w, nil)
			return
		}
		if slot.Status == "" {
			slot.Status = models.SlotStatusAvailable
		}
		if !models.ValidSlotStatus(slot.Status) {
			config.ErrorStatus("Invalid slot status. Must be one of: available, unavailable, booked", http.StatusBadRequest, w, nil)
			return
		}
	}

	date, err := parseHearingDate(req.Date)
	if err != nil {
		config.ErrorStatus("Invalid date", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{
		"userId": identity.UserID,
		"date":   primitive.NewDateTimeFromTime(date),
	}
	update := bson.M{
		"$set": bson.M{
			"timeSlots": req.TimeSlots,
			"userRole":  identity.Role,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"availabilityId": uuid.New().String(),
			"userId":         identity.UserID,
			"date":           primitive.NewDateTimeFromTime(date),
			"createdAt":      now,
		},
	}

	if _, err := av.DB.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		config.ErrorStatus("Failed to update availability", http.StatusInternalServerError, w, err)
		return
	}

	availability, err := av.DB.FindOne(ctx, filter)
	if err != nil {
		config.ErrorStatus("Failed to update availability", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(availability, http.StatusOK, w)
}
