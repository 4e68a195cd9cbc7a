package audit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log is one append-only workflow event tied to a lead. The trail follows the
// borrower across every stage, so the subject is always the lead id even when
// the mutated record is a sanction or a disbursal.
type Log struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Lead       primitive.ObjectID `bson:"lead" json:"lead"`
	LogDate    time.Time          `bson:"logDate" json:"logDate"`
	Status     string             `bson:"status" json:"status"`
	Borrower   string             `bson:"borrower" json:"borrower"`
	LeadRemark string             `bson:"leadRemark" json:"leadRemark"`
	Remarks    string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
}
