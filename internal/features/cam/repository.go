package cam

import (
	"context"
	"time"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CamRepository interface {
	FindByLead(ctx context.Context, leadID primitive.ObjectID) (*CamDetails, error)
	// UpdateDetails upserts the memo for a lead, $set-ing only the given
	// details.* fields.
	UpdateDetails(ctx context.Context, leadID primitive.ObjectID, fields bson.M) (*CamDetails, error)
}

type CamRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCamRepository(mongodb *database.MongodbDB) CamRepository {
	return &CamRepositoryImpl{
		Collection: mongodb.DB.Collection("camdetails"),
	}
}

func (r *CamRepositoryImpl) FindByLead(ctx context.Context, leadID primitive.ObjectID) (*CamDetails, error) {
	var details CamDetails
	err := r.Collection.FindOne(ctx, bson.M{"leadId": leadID}).Decode(&details)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &details, nil
}

func (r *CamRepositoryImpl) UpdateDetails(ctx context.Context, leadID primitive.ObjectID, fields bson.M) (*CamDetails, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set["details."+k] = v
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var details CamDetails
	err := r.Collection.FindOneAndUpdate(ctx,
		bson.M{"leadId": leadID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"createdAt": time.Now()},
		},
		opts,
	).Decode(&details)
	if err != nil {
		return nil, err
	}
	return &details, nil
}
