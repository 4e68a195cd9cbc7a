package account

import (
	"context"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/features/collection"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// AccountService is the account-executive confirmation gate: collection
// executives report payments, account executives confirm them against
// the bank statement before any terminal flag lands.
type AccountService interface {
	// LeadsToVerify lists active disbursed loans carrying unconfirmed
	// payment evidence.
	LeadsToVerify(ctx context.Context, page, limit int64) (common_models.Paged[collection.Closed], error)
	// VerifyActivePayment confirms a reported payment. The requested
	// status must match what the verifier observed; a mismatch leaves
	// every flag untouched so the call can be retried after review.
	VerifyActivePayment(ctx context.Context, loanNo string, actor common_models.Actor, utr, status string) error
	// RejectPaymentVerification clears a pending request without applying
	// any terminal flag.
	RejectPaymentVerification(ctx context.Context, loanNo, utr string) error
}

type AccountServiceImpl struct {
	Closed collection.ClosedRepository
	Logger *zap.Logger
}

func NewAccountService(closed collection.ClosedRepository, logger *zap.Logger) AccountService {
	return &AccountServiceImpl{Closed: closed, Logger: logger}
}

func (s *AccountServiceImpl) LeadsToVerify(ctx context.Context, page, limit int64) (common_models.Paged[collection.Closed], error) {
	filter := bson.M{
		"isActive":    true,
		"isDisbursed": true,
		"isVerified":  bson.M{"$ne": true},
		"$or": []bson.M{
			{"requestedStatus": bson.M{"$exists": true, "$ne": ""}},
			{"partialPaid": bson.M{"$elemMatch": bson.M{
				"requestedStatus": bson.M{"$exists": true, "$ne": ""},
				"isVerified":      bson.M{"$ne": true},
				"isRejected":      bson.M{"$ne": true},
			}}},
		},
	}
	docs, err := s.Closed.ListWithEntry(ctx, filter, page, limit)
	if err != nil {
		return common_models.Paged[collection.Closed]{}, err
	}
	total, err := s.Closed.CountWithEntry(ctx, filter)
	if err != nil {
		return common_models.Paged[collection.Closed]{}, err
	}
	return common_models.NewPaged(docs, total, page, limit), nil
}

func (s *AccountServiceImpl) VerifyActivePayment(ctx context.Context, loanNo string, actor common_models.Actor, utr, status string) error {
	if !collection.ValidRequestedStatus(status) {
		return apperr.InvalidTransition("unknown requested status")
	}

	_, entry, err := s.load(ctx, loanNo)
	if err != nil {
		return err
	}
	if !entry.IsActive || !entry.IsDisbursed {
		return apperr.InvalidTransition("loan is not active")
	}

	// A confirmed partial only marks the sub-entry; the loan stays active
	// until a top-level terminal status is requested and verified.
	if pending := pendingPartial(entry, utr); pending != nil {
		if pending.RequestedStatus != status {
			return apperr.Mismatch("requested status does not match reported payment")
		}
		if err := s.Closed.SetPartialFields(ctx, loanNo, utr, bson.M{
			"isVerified":   true,
			"isPartlyPaid": true,
		}); err != nil {
			return err
		}
		s.Logger.Info("payment verified",
			zap.String("loanNo", loanNo),
			zap.String("utr", utr),
			zap.String("status", status),
			zap.String("verifiedBy", actor.Name))
		return nil
	}

	if entry.RequestedStatus == "" {
		return apperr.InvalidTransition("no pending payment to verify")
	}
	if entry.Utr != utr {
		return apperr.Mismatch("utr does not match reported payment")
	}
	if entry.RequestedStatus != status {
		return apperr.Mismatch("requested status does not match reported payment")
	}

	if err := s.Closed.SetEntryFields(ctx, loanNo, terminalFields(status)); err != nil {
		return err
	}
	s.Logger.Info("payment verified",
		zap.String("loanNo", loanNo),
		zap.String("utr", utr),
		zap.String("status", status),
		zap.String("verifiedBy", actor.Name))
	return nil
}

func (s *AccountServiceImpl) RejectPaymentVerification(ctx context.Context, loanNo, utr string) error {
	_, entry, err := s.load(ctx, loanNo)
	if err != nil {
		return err
	}

	if pending := pendingPartial(entry, utr); pending != nil {
		if err := s.Closed.UnsetPartialFields(ctx, loanNo, utr, "requestedStatus"); err != nil {
			return err
		}
		return s.Closed.SetPartialFields(ctx, loanNo, utr, bson.M{"isRejected": true})
	}

	if entry.RequestedStatus == "" || entry.Utr != utr {
		return apperr.NotFound("no pending payment with this utr")
	}
	return s.Closed.UnsetEntryFields(ctx, loanNo, "requestedStatus")
}

func (s *AccountServiceImpl) load(ctx context.Context, loanNo string) (*collection.Closed, *collection.LoanEntry, error) {
	doc, err := s.Closed.FindByLoanNo(ctx, loanNo)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, apperr.NotFound("loan not found")
	}
	entry := collection.EntryOf(doc, loanNo)
	if entry == nil {
		return nil, nil, apperr.NotFound("loan not found")
	}
	return doc, entry, nil
}

// pendingPartial returns the unresolved partial payment matching utr.
// Entries already verified or rejected are settled history, not pending.
func pendingPartial(entry *collection.LoanEntry, utr string) *collection.PartialPayment {
	for i := range entry.PartialPaid {
		p := &entry.PartialPaid[i]
		if p.RequestedStatus != "" && !p.IsVerified && !p.IsRejected && p.Utr == utr {
			return p
		}
	}
	return nil
}

func terminalFields(status string) bson.M {
	fields := bson.M{
		"isVerified": true,
		"isActive":   false,
	}
	switch status {
	case collection.StatusSettled:
		fields["isSettled"] = true
	case collection.StatusClosed:
		fields["isClosed"] = true
	case collection.StatusWriteOff:
		fields["isWriteOff"] = true
		fields["defaulted"] = true
	}
	return fields
}
