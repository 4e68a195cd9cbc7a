package models

import (
	"time"

	"go-los/internal/common/roles"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor identifies the employee performing a workflow operation. Built from
// JWT claims by the controllers and threaded through every service call.
type Actor struct {
	ID   primitive.ObjectID
	Name string
	Role roles.Role
}

// Log is the application log record written by the async zap sink.
type Log struct {
	Message      string    `bson:"message"`
	Caller       string    `bson:"caller,omitempty"`
	LogLevelId   int       `bson:"log_level_id"`
	AppId        string    `bson:"app_id,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}

// Paged wraps list responses the way the dashboards expect them.
type Paged[T any] struct {
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int64 `json:"currentPage"`
	Records      []T   `json:"records"`
}

func NewPaged[T any](records []T, total, page, limit int64) Paged[T] {
	if limit < 1 {
		limit = 10
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Paged[T]{
		TotalRecords: total,
		TotalPages:   pages,
		CurrentPage:  page,
		Records:      records,
	}
}
