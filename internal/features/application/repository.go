package application

import (
	"context"
	"time"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ApplicationRepository interface {
	// CreateForLead inserts the credit-review record for a freshly
	// recommended lead.
	CreateForLead(ctx context.Context, leadID primitive.ObjectID) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Application, error)
	FindByLead(ctx context.Context, leadID primitive.ObjectID) (*Application, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Application, error)
	// DeleteByLead removes the record during send-back to the screener.
	DeleteByLead(ctx context.Context, leadID primitive.ObjectID) error
	List(ctx context.Context, filter bson.M, page, limit int64) ([]Application, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

type ApplicationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewApplicationRepository(mongodb *database.MongodbDB) ApplicationRepository {
	return &ApplicationRepositoryImpl{
		Collection: mongodb.DB.Collection("applications"),
	}
}

func (r *ApplicationRepositoryImpl) CreateForLead(ctx context.Context, leadID primitive.ObjectID) (primitive.ObjectID, error) {
	now := time.Now()
	app := Application{
		ID:        primitive.NewObjectID(),
		Lead:      leadID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.Collection.InsertOne(ctx, app); err != nil {
		return primitive.NilObjectID, err
	}
	return app.ID, nil
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Application, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ApplicationRepositoryImpl) FindByLead(ctx context.Context, leadID primitive.ObjectID) (*Application, error) {
	return r.findOne(ctx, bson.M{"lead": leadID})
}

func (r *ApplicationRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*Application, error) {
	var app Application
	err := r.Collection.FindOne(ctx, filter).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Application, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var app Application
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) DeleteByLead(ctx context.Context, leadID primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"lead": leadID})
	return err
}

func (r *ApplicationRepositoryImpl) List(ctx context.Context, filter bson.M, page, limit int64) ([]Application, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.M{"updatedAt": -1})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var apps []Application
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, filter)
}
