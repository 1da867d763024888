package databases

// go generate: mockery --name HearingDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-management-api/models"
)

const hearingCollectionName = "hearings"

// HearingDatabase contains the methods to use with the hearing database
type HearingDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Hearing, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Hearing, error)
	InsertOne(ctx context.Context, hearing models.Hearing) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error)
}

type hearingDatabase struct {
	db DatabaseHelper
}

// NewHearingDatabase initializes a new instance of hearing database with the provided db connection
func NewHearingDatabase(db DatabaseHelper) HearingDatabase {
	return &hearingDatabase{
		db: db,
	}
}

func (h *hearingDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Hearing, error) {
	hearing := &models.Hearing{}
	err := h.db.Collection(hearingCollectionName).FindOne(ctx, filter).Decode(hearing)
	if err != nil {
		return nil, err
	}
	return hearing, nil
}

func (h *hearingDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Hearing, error) {
	var hearings []models.Hearing
	cursor, err := h.db.Collection(hearingCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	err = cursor.All(ctx, &hearings)
	if err != nil {
		return nil, err
	}
	return hearings, nil
}

func (h *hearingDatabase) InsertOne(ctx context.Context, hearing models.Hearing) (interface{}, error) {
	return h.db.Collection(hearingCollectionName).InsertOne(ctx, hearing)
}

func (h *hearingDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return h.db.Collection(hearingCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (h *hearingDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return h.db.Collection(hearingCollectionName).DeleteOne(ctx, filter)
}

func (h *hearingDatabase) Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error) {
	return h.db.Collection(hearingCollectionName).Aggregate(ctx, pipeline)
}
