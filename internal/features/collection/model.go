package collection

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartialPayment is one piece of payment evidence reported against a
// loan. UTRs are unique within a single loan's history.
type PartialPayment struct {
	Amount          float64    `bson:"amount" json:"amount"`
	Date            *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Utr             string     `bson:"utr" json:"utr"`
	IsPartlyPaid    bool       `bson:"isPartlyPaid" json:"isPartlyPaid"`
	RequestedStatus string     `bson:"requestedStatus,omitempty" json:"requestedStatus,omitempty"`
	IsVerified      bool       `bson:"isVerified" json:"isVerified"`
	IsRejected      bool       `bson:"isRejected" json:"isRejected"`
}

// LoanEntry is one loan lifecycle inside a borrower's Closed document.
// A borrower may hold at most one active entry at a time.
type LoanEntry struct {
	Disbursal *primitive.ObjectID `bson:"disbursal,omitempty" json:"disbursal,omitempty"`
	LoanNo    string              `bson:"loanNo" json:"loanNo"`

	IsActive    bool `bson:"isActive" json:"isActive"`
	IsDisbursed bool `bson:"isDisbursed" json:"isDisbursed"`
	IsClosed    bool `bson:"isClosed" json:"isClosed"`
	IsSettled   bool `bson:"isSettled" json:"isSettled"`
	IsWriteOff  bool `bson:"isWriteOff" json:"isWriteOff"`
	Defaulted   bool `bson:"defaulted" json:"defaulted"`
	IsVerified  bool `bson:"isVerified" json:"isVerified"`

	RequestedStatus string     `bson:"requestedStatus,omitempty" json:"requestedStatus,omitempty"`
	Date            *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Amount          float64    `bson:"amount,omitempty" json:"amount,omitempty"`
	Utr             string     `bson:"utr,omitempty" json:"utr,omitempty"`
	Dpd             int        `bson:"dpd" json:"dpd"`

	PartialPaid []PartialPayment `bson:"partialPaid" json:"partialPaid"`
}

// Closed is the per-borrower loan ledger, keyed by PAN.
type Closed struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Pan  string             `bson:"pan" json:"pan"`
	Data []LoanEntry        `bson:"data" json:"data"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Requested status values accepted from collection executives.
const (
	StatusClosed   = "closed"
	StatusSettled  = "settled"
	StatusWriteOff = "writeOff"
)

func ValidRequestedStatus(s string) bool {
	return s == StatusClosed || s == StatusSettled || s == StatusWriteOff
}
