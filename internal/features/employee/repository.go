package employee

import (
	"context"
	"time"

	"go-los/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp *Employee) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	EnsureIndexes(ctx context.Context) error
}

type EmployeeRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewEmployeeRepository(mongodb *database.MongodbDB) EmployeeRepository {
	return &EmployeeRepositoryImpl{
		Collection: mongodb.DB.Collection("employees"),
	}
}

func (r *EmployeeRepositoryImpl) Create(ctx context.Context, emp *Employee) error {
	if emp.ID.IsZero() {
		emp.ID = primitive.NewObjectID()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	_, err := r.Collection.InsertOne(ctx, emp)
	return err
}

func (r *EmployeeRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Employee, error) {
	var emp Employee
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&emp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepositoryImpl) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var emp Employee
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&emp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepositoryImpl) List(ctx context.Context) ([]Employee, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var emps []Employee
	if err = cursor.All(ctx, &emps); err != nil {
		return nil, err
	}
	return emps, nil
}

func (r *EmployeeRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
