package sanction

import (
	"context"
	"time"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SanctionRepository interface {
	// CreateForApplication inserts the sanction record for a recommended
	// application.
	CreateForApplication(ctx context.Context, applicationID, recommendedBy primitive.ObjectID) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Sanction, error)
	FindByApplication(ctx context.Context, applicationID primitive.ObjectID) (*Sanction, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Sanction, error)
	// DeleteByApplication removes the record during send-back to the
	// credit manager.
	DeleteByApplication(ctx context.Context, applicationID primitive.ObjectID) error
	List(ctx context.Context, filter bson.M, page, limit int64) ([]Sanction, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	// HighestLoanNo returns the lexically greatest assigned loan number,
	// or "" when none has been issued yet.
	HighestLoanNo(ctx context.Context) (string, error)
	EnsureIndexes(ctx context.Context) error
}

type SanctionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSanctionRepository(mongodb *database.MongodbDB) SanctionRepository {
	return &SanctionRepositoryImpl{
		Collection: mongodb.DB.Collection("sanctions"),
	}
}

func (r *SanctionRepositoryImpl) CreateForApplication(ctx context.Context, applicationID, recommendedBy primitive.ObjectID) (primitive.ObjectID, error) {
	now := time.Now()
	sanction := Sanction{
		ID:            primitive.NewObjectID(),
		Application:   applicationID,
		RecommendedBy: &recommendedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.Collection.InsertOne(ctx, sanction); err != nil {
		return primitive.NilObjectID, err
	}
	return sanction.ID, nil
}

func (r *SanctionRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Sanction, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *SanctionRepositoryImpl) FindByApplication(ctx context.Context, applicationID primitive.ObjectID) (*Sanction, error) {
	return r.findOne(ctx, bson.M{"application": applicationID})
}

func (r *SanctionRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*Sanction, error) {
	var sanction Sanction
	err := r.Collection.FindOne(ctx, filter).Decode(&sanction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &sanction, nil
}

func (r *SanctionRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Sanction, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sanction Sanction
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&sanction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &sanction, nil
}

func (r *SanctionRepositoryImpl) DeleteByApplication(ctx context.Context, applicationID primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"application": applicationID})
	return err
}

func (r *SanctionRepositoryImpl) List(ctx context.Context, filter bson.M, page, limit int64) ([]Sanction, error) {
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
	var sanctions []Sanction
	if err = cursor.All(ctx, &sanctions); err != nil {
		return nil, err
	}
	return sanctions, nil
}

func (r *SanctionRepositoryImpl) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, filter)
}

func (r *SanctionRepositoryImpl) HighestLoanNo(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.M{"loanNo": -1})
	var sanction Sanction
	err := r.Collection.FindOne(ctx, bson.M{"loanNo": bson.M{"$exists": true, "$ne": ""}}, opts).Decode(&sanction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}
	return sanction.LoanNo, nil
}

func (r *SanctionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "application", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "loanNo", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}
