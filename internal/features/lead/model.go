package lead

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is the intake-stage record. It is never hard-deleted; screening
// outcomes live in the flag fields.
type Lead struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FName     string              `bson:"fName" json:"fName"`
	MName     string              `bson:"mName,omitempty" json:"mName,omitempty"`
	LName     string              `bson:"lName,omitempty" json:"lName,omitempty"`
	Pan       string              `bson:"pan" json:"pan"`
	Aadhaar   string              `bson:"aadhaar,omitempty" json:"aadhaar,omitempty"`
	Mobile    string              `bson:"mobile" json:"mobile"`
	Email     string              `bson:"personalEmail,omitempty" json:"personalEmail,omitempty"`
	LoanAmount float64            `bson:"loanAmount,omitempty" json:"loanAmount,omitempty"`

	ScreenerID    *primitive.ObjectID `bson:"screenerId,omitempty" json:"screenerId,omitempty"`
	OnHold        bool                `bson:"onHold" json:"onHold"`
	HeldBy        *primitive.ObjectID `bson:"heldBy,omitempty" json:"heldBy,omitempty"`
	IsRejected    bool                `bson:"isRejected" json:"isRejected"`
	RejectedBy    *primitive.ObjectID `bson:"rejectedBy,omitempty" json:"rejectedBy,omitempty"`
	IsRecommended bool                `bson:"isRecommended" json:"isRecommended"`
	RecommendedBy *primitive.ObjectID `bson:"recommendedBy,omitempty" json:"recommendedBy,omitempty"`

	Documents *primitive.ObjectID `bson:"documents,omitempty" json:"documents,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BorrowerName joins the name parts for audit log entries.
func (l *Lead) BorrowerName() string {
	parts := []string{l.FName}
	if l.MName != "" {
		parts = append(parts, l.MName)
	}
	if l.LName != "" {
		parts = append(parts, l.LName)
	}
	return strings.Join(parts, " ")
}
