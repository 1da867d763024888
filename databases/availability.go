package databases

// go generate: mockery --name AvailabilityDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/models"
)

const availabilityCollectionName = "availabilities"

// AvailabilityDatabase contains the methods to use with the availability database
type AvailabilityDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Availability, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Availability, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type availabilityDatabase struct {
	db DatabaseHelper
}

// NewAvailabilityDatabase initializes a new instance of availability database with the provided db connection
func NewAvailabilityDatabase(db DatabaseHelper) AvailabilityDatabase {
	return &availabilityDatabase{
		db: db,
	}
}

func (a *availabilityDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Availability, error) {
	availability := &models.Availability{}
	err := a.db.Collection(availabilityCollectionName).FindOne(ctx, filter).Decode(availability)
	if err != nil {
		return nil, err
	}
	return availability, nil
}

func (a *availabilityDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Availability, error) {
	var availabilities []models.Availability
	cursor, err := a.db.Collection(availabilityCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	err = cursor.All(ctx, &availabilities)
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (a *availabilityDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return a.db.Collection(availabilityCollectionName).UpdateOne(ctx, filter, update, opts...)
}
