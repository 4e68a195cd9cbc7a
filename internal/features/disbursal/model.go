package disbursal

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Disbursal is the payout-stage record, one-to-one with an approved
// Sanction. The loan number is carried over so payout screens never need
// to walk back up the chain.
type Disbursal struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sanction primitive.ObjectID `bson:"sanction" json:"sanction"`
	LoanNo   string             `bson:"loanNo" json:"loanNo"`

	DisbursalManagerID *primitive.ObjectID `bson:"disbursalManagerId,omitempty" json:"disbursalManagerId,omitempty"`
	OnHold             bool                `bson:"onHold" json:"onHold"`
	HeldBy             *primitive.ObjectID `bson:"heldBy,omitempty" json:"heldBy,omitempty"`
	IsRejected         bool                `bson:"isRejected" json:"isRejected"`
	RejectedBy         *primitive.ObjectID `bson:"rejectedBy,omitempty" json:"rejectedBy,omitempty"`
	IsRecommended      bool                `bson:"isRecommended" json:"isRecommended"`
	RecommendedBy      *primitive.ObjectID `bson:"recommendedBy,omitempty" json:"recommendedBy,omitempty"`

	IsDisbursed bool                `bson:"isDisbursed" json:"isDisbursed"`
	DisbursedBy *primitive.ObjectID `bson:"disbursedBy,omitempty" json:"disbursedBy,omitempty"`
	DisbursedAt *time.Time          `bson:"disbursedAt,omitempty" json:"disbursedAt,omitempty"`

	PayableAccount string  `bson:"payableAccount,omitempty" json:"payableAccount,omitempty"`
	PaymentMode    string  `bson:"paymentMode,omitempty" json:"paymentMode,omitempty"`
	Amount         float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Channel        string  `bson:"channel,omitempty" json:"channel,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
