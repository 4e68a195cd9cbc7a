package audit

import (
	"context"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Create(ctx context.Context, log *Log) error
	ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]Log, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("logs_workflow"),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log *Log) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, log)
	return err
}

func (r *AuditRepositoryImpl) ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]Log, error) {
	opts := options.Find().SetSort(bson.M{"logDate": -1})
	cursor, err := r.Collection.Find(ctx, bson.M{"lead": leadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var logs []Log
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
