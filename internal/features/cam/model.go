package cam

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Details is the credit assessment memo for a lead. Sanction approval
// reads it; disbursal approval recomputes tenure and repayment when the
// actual payout date moves.
type Details struct {
	LoanRecommended   float64    `bson:"loanRecommended" json:"loanRecommended"`
	Roi               float64    `bson:"roi" json:"roi"`
	DisbursalDate     *time.Time `bson:"disbursalDate,omitempty" json:"disbursalDate,omitempty"`
	RepaymentDate     *time.Time `bson:"repaymentDate,omitempty" json:"repaymentDate,omitempty"`
	EligibleTenure    int        `bson:"eligibleTenure" json:"eligibleTenure"`
	RepaymentAmount   float64    `bson:"repaymentAmount" json:"repaymentAmount"`
	NetAdminFeeAmount float64    `bson:"netAdminFeeAmount" json:"netAdminFeeAmount"`
	PenalInterest     float64    `bson:"penalInterest" json:"penalInterest"`
}

type CamDetails struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Lead    primitive.ObjectID `bson:"leadId" json:"leadId"`
	Details Details            `bson:"details" json:"details"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
