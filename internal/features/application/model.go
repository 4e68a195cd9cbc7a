package application

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is the credit-review stage record, one-to-one with a
// recommended Lead. Send-back to the screener deletes it again.
type Application struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Lead primitive.ObjectID `bson:"lead" json:"lead"`

	CreditManagerID *primitive.ObjectID `bson:"creditManagerId,omitempty" json:"creditManagerId,omitempty"`
	OnHold          bool                `bson:"onHold" json:"onHold"`
	HeldBy          *primitive.ObjectID `bson:"heldBy,omitempty" json:"heldBy,omitempty"`
	IsRejected      bool                `bson:"isRejected" json:"isRejected"`
	RejectedBy      *primitive.ObjectID `bson:"rejectedBy,omitempty" json:"rejectedBy,omitempty"`
	IsRecommended   bool                `bson:"isRecommended" json:"isRecommended"`
	RecommendedBy   *primitive.ObjectID `bson:"recommendedBy,omitempty" json:"recommendedBy,omitempty"`
	IsApproved      bool                `bson:"isApproved" json:"isApproved"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
