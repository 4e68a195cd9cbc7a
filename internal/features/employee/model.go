package employee

import (
	"strings"
	"time"

	"go-los/internal/common/roles"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee is an internal user of the origination desk. Roles decide which
// workflow transitions the employee may perform.
type Employee struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FName     string             `bson:"fName" json:"fName"`
	MName     string             `bson:"mName,omitempty" json:"mName,omitempty"`
	LName     string             `bson:"lName,omitempty" json:"lName,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Mobile    string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Roles     []roles.Role       `bson:"empRoles" json:"empRoles"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins the name parts the way the audit trail renders actors.
func (e *Employee) FullName() string {
	parts := []string{e.FName}
	if e.MName != "" {
		parts = append(parts, e.MName)
	}
	if e.LName != "" {
		parts = append(parts, e.LName)
	}
	return strings.Join(parts, " ")
}
