// Package sequence issues monotonically increasing numbers from a
// counters collection. Each Next is a single atomic $inc upsert, so two
// concurrent approvals can never see the same value.
package sequence

import (
	"context"
	"fmt"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const LoanCounter = "loanNo"

type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	// Seed initialises an absent counter to from, so numbering continues
	// after the highest already-issued value. No-op when the counter exists.
	Seed(ctx context.Context, name string, from int64) error
}

type SequenceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSequenceRepository(mongodb *database.MongodbDB) SequenceRepository {
	return &SequenceRepositoryImpl{
		Collection: mongodb.DB.Collection("counters"),
	}
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (r *SequenceRepositoryImpl) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := r.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}

func (r *SequenceRepositoryImpl) Seed(ctx context.Context, name string, from int64) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"seq": from}},
		options.Update().SetUpsert(true),
	)
	return err
}

// FormatLoanNo renders a sequence value as a loan number, e.g.
// FormatLoanNo("NMFSPE", 11, 1) == "NMFSPE00000000001".
func FormatLoanNo(prefix string, pad int, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, pad, seq)
}
