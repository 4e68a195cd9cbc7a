package collection

import (
	"context"
	"time"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClosedRepository interface {
	FindByPan(ctx context.Context, pan string) (*Closed, error)
	// HasActiveEntry reports whether the PAN currently holds a live loan.
	HasActiveEntry(ctx context.Context, pan string) (bool, error)
	// AppendEntry upserts the borrower document and pushes a new loan entry.
	AppendEntry(ctx context.Context, pan string, entry LoanEntry) error
	// FindByLoanNo returns the borrower document containing the loan.
	FindByLoanNo(ctx context.Context, loanNo string) (*Closed, error)
	// SetEntryFields $sets data.$[e].<field> for the entry matching loanNo.
	SetEntryFields(ctx context.Context, loanNo string, fields bson.M) error
	// UnsetEntryFields removes fields from the entry matching loanNo.
	UnsetEntryFields(ctx context.Context, loanNo string, fields ...string) error
	// SetPartialFields $sets data.$[e].partialPaid.$[p].<field> for the
	// payment matching utr inside the entry matching loanNo.
	SetPartialFields(ctx context.Context, loanNo, utr string, fields bson.M) error
	UnsetPartialFields(ctx context.Context, loanNo, utr string, fields ...string) error
	PushPartial(ctx context.Context, loanNo string, payment PartialPayment) error
	ListWithEntry(ctx context.Context, entryFilter bson.M, page, limit int64) ([]Closed, error)
	CountWithEntry(ctx context.Context, entryFilter bson.M) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type ClosedRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewClosedRepository(mongodb *database.MongodbDB) ClosedRepository {
	return &ClosedRepositoryImpl{
		Collection: mongodb.DB.Collection("closed"),
	}
}

func (r *ClosedRepositoryImpl) FindByPan(ctx context.Context, pan string) (*Closed, error) {
	return r.findOne(ctx, bson.M{"pan": pan})
}

func (r *ClosedRepositoryImpl) HasActiveEntry(ctx context.Context, pan string) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{
		"pan":  pan,
		"data": bson.M{"$elemMatch": bson.M{"isActive": true}},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ClosedRepositoryImpl) AppendEntry(ctx context.Context, pan string, entry LoanEntry) error {
	if entry.PartialPaid == nil {
		entry.PartialPaid = []PartialPayment{}
	}
	now := time.Now()
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"pan": pan},
		bson.M{
			"$push":        bson.M{"data": entry},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ClosedRepositoryImpl) FindByLoanNo(ctx context.Context, loanNo string) (*Closed, error) {
	return r.findOne(ctx, bson.M{"data.loanNo": loanNo})
}

func (r *ClosedRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*Closed, error) {
	var doc Closed
	err := r.Collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ClosedRepositoryImpl) SetEntryFields(ctx context.Context, loanNo string, fields bson.M) error {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set["data.$[e]."+k] = v
	}
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"data.loanNo": loanNo},
		bson.M{"$set": set},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"e.loanNo": loanNo}},
		}),
	)
	return err
}

func (r *ClosedRepositoryImpl) UnsetEntryFields(ctx context.Context, loanNo string, fields ...string) error {
	unset := bson.M{}
	for _, k := range fields {
		unset["data.$[e]."+k] = ""
	}
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"data.loanNo": loanNo},
		bson.M{
			"$unset": unset,
			"$set":   bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"e.loanNo": loanNo}},
		}),
	)
	return err
}

func (r *ClosedRepositoryImpl) SetPartialFields(ctx context.Context, loanNo, utr string, fields bson.M) error {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set["data.$[e].partialPaid.$[p]."+k] = v
	}
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"data.loanNo": loanNo},
		bson.M{"$set": set},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"e.loanNo": loanNo},
				bson.M{"p.utr": utr},
			},
		}),
	)
	return err
}

func (r *ClosedRepositoryImpl) UnsetPartialFields(ctx context.Context, loanNo, utr string, fields ...string) error {
	unset := bson.M{}
	for _, k := range fields {
		unset["data.$[e].partialPaid.$[p]."+k] = ""
	}
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"data.loanNo": loanNo},
		bson.M{
			"$unset": unset,
			"$set":   bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"e.loanNo": loanNo},
				bson.M{"p.utr": utr},
			},
		}),
	)
	return err
}

func (r *ClosedRepositoryImpl) PushPartial(ctx context.Context, loanNo string, payment PartialPayment) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"data.loanNo": loanNo},
		bson.M{
			"$push": bson.M{"data.$[e].partialPaid": payment},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"e.loanNo": loanNo}},
		}),
	)
	return err
}

func (r *ClosedRepositoryImpl) ListWithEntry(ctx context.Context, entryFilter bson.M, page, limit int64) ([]Closed, error) {
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

	cursor, err := r.Collection.Find(ctx, bson.M{"data": bson.M{"$elemMatch": entryFilter}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []Closed
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *ClosedRepositoryImpl) CountWithEntry(ctx context.Context, entryFilter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"data": bson.M{"$elemMatch": entryFilter}})
}

func (r *ClosedRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pan", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "data.loanNo", Value: 1}},
		},
	})
	return err
}
