package disbursal

import (
	"context"
	"time"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DisbursalRepository interface {
	// CreateForSanction inserts the payout record when a sanction is
	// approved, carrying the freshly assigned loan number.
	CreateForSanction(ctx context.Context, sanctionID primitive.ObjectID, loanNo string) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Disbursal, error)
	FindBySanction(ctx context.Context, sanctionID primitive.ObjectID) (*Disbursal, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Disbursal, error)
	List(ctx context.Context, filter bson.M, page, limit int64) ([]Disbursal, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type DisbursalRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDisbursalRepository(mongodb *database.MongodbDB) DisbursalRepository {
	return &DisbursalRepositoryImpl{
		Collection: mongodb.DB.Collection("disbursals"),
	}
}

func (r *DisbursalRepositoryImpl) CreateForSanction(ctx context.Context, sanctionID primitive.ObjectID, loanNo string) (primitive.ObjectID, error) {
	now := time.Now()
	disbursal := Disbursal{
		ID:        primitive.NewObjectID(),
		Sanction:  sanctionID,
		LoanNo:    loanNo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.Collection.InsertOne(ctx, disbursal); err != nil {
		return primitive.NilObjectID, err
	}
	return disbursal.ID, nil
}

func (r *DisbursalRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Disbursal, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *DisbursalRepositoryImpl) FindBySanction(ctx context.Context, sanctionID primitive.ObjectID) (*Disbursal, error) {
	return r.findOne(ctx, bson.M{"sanction": sanctionID})
}

func (r *DisbursalRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*Disbursal, error) {
	var disbursal Disbursal
	err := r.Collection.FindOne(ctx, filter).Decode(&disbursal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &disbursal, nil
}

func (r *DisbursalRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Disbursal, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var disbursal Disbursal
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&disbursal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &disbursal, nil
}

func (r *DisbursalRepositoryImpl) List(ctx context.Context, filter bson.M, page, limit int64) ([]Disbursal, error) {
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
	var disbursals []Disbursal
	if err = cursor.All(ctx, &disbursals); err != nil {
		return nil, err
	}
	return disbursals, nil
}

func (r *DisbursalRepositoryImpl) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, filter)
}

func (r *DisbursalRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sanction", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
