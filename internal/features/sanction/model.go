package sanction

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sanction is the approval-stage record, one-to-one with an Application.
// LoanNo is assigned exactly once, inside the approval transaction.
type Sanction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Application primitive.ObjectID `bson:"application" json:"application"`

	RecommendedBy *primitive.ObjectID `bson:"recommendedBy,omitempty" json:"recommendedBy,omitempty"`
	OnHold        bool                `bson:"onHold" json:"onHold"`
	HeldBy        *primitive.ObjectID `bson:"heldBy,omitempty" json:"heldBy,omitempty"`
	IsRejected    bool                `bson:"isRejected" json:"isRejected"`
	RejectedBy    *primitive.ObjectID `bson:"rejectedBy,omitempty" json:"rejectedBy,omitempty"`
	IsApproved    bool                `bson:"isApproved" json:"isApproved"`
	ApprovedBy    *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	SanctionDate  *time.Time          `bson:"sanctionDate,omitempty" json:"sanctionDate,omitempty"`
	LoanNo        string              `bson:"loanNo,omitempty" json:"loanNo,omitempty"`
	ESigned       bool                `bson:"eSigned" json:"eSigned"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
