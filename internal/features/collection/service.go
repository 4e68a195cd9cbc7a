package collection

import (
	"context"
	"time"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
)

// PaymentReport is the evidence a collection executive submits against
// an active loan.
type PaymentReport struct {
	Amount          float64    `json:"amount"`
	Date            *time.Time `json:"date"`
	Utr             string     `json:"utr"`
	IsPartlyPaid    bool       `json:"isPartlyPaid"`
	RequestedStatus string     `json:"requestedStatus"`
}

type CollectionService interface {
	// ListActive returns borrowers with a live disbursed loan still open.
	ListActive(ctx context.Context, page, limit int64) (common_models.Paged[Closed], error)
	ListClosedAccounts(ctx context.Context, page, limit int64) (common_models.Paged[Closed], error)
	// GetByLoanNo returns the borrower document and the matching entry.
	GetByLoanNo(ctx context.Context, loanNo string) (*Closed, *LoanEntry, error)
	// ReportPayment records payment evidence: a partial payment push, a
	// requested terminal status, or both. UTRs must be unused within the
	// loan's history.
	ReportPayment(ctx context.Context, loanNo string, report PaymentReport) error
}

type CollectionServiceImpl struct {
	Repo ClosedRepository
}

func NewCollectionService(repo ClosedRepository) CollectionService {
	return &CollectionServiceImpl{Repo: repo}
}

func (s *CollectionServiceImpl) ListActive(ctx context.Context, page, limit int64) (common_models.Paged[Closed], error) {
	return s.page(ctx, bson.M{
		"isActive":    true,
		"isDisbursed": true,
		"isClosed":    bson.M{"$ne": true},
	}, page, limit)
}

func (s *CollectionServiceImpl) ListClosedAccounts(ctx context.Context, page, limit int64) (common_models.Paged[Closed], error) {
	return s.page(ctx, bson.M{
		"isActive": bson.M{"$ne": true},
		"$or": []bson.M{
			{"isClosed": true},
			{"isSettled": true},
			{"isWriteOff": true},
		},
	}, page, limit)
}

func (s *CollectionServiceImpl) GetByLoanNo(ctx context.Context, loanNo string) (*Closed, *LoanEntry, error) {
	doc, err := s.Repo.FindByLoanNo(ctx, loanNo)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, apperr.NotFound("loan not found")
	}
	entry := EntryOf(doc, loanNo)
	if entry == nil {
		return nil, nil, apperr.NotFound("loan not found")
	}
	return doc, entry, nil
}

func (s *CollectionServiceImpl) ReportPayment(ctx context.Context, loanNo string, report PaymentReport) error {
	_, entry, err := s.GetByLoanNo(ctx, loanNo)
	if err != nil {
		return err
	}
	if !entry.IsActive || !entry.IsDisbursed {
		return apperr.InvalidTransition("loan is not active")
	}
	if report.RequestedStatus != "" && !ValidRequestedStatus(report.RequestedStatus) {
		return apperr.InvalidTransition("unknown requested status")
	}
	if report.Utr == "" {
		return apperr.InvalidTransition("utr is required")
	}
	if utrUsed(entry, report.Utr) {
		return apperr.Conflict("utr already reported for this loan")
	}

	// isPartlyPaid stays unset until the account executive confirms the
	// payment; the push records the claim only.
	if report.IsPartlyPaid {
		return s.Repo.PushPartial(ctx, loanNo, PartialPayment{
			Amount:          report.Amount,
			Date:            report.Date,
			Utr:             report.Utr,
			RequestedStatus: report.RequestedStatus,
		})
	}

	if report.RequestedStatus == "" {
		return apperr.InvalidTransition("requested status is required for a full settlement report")
	}
	fields := bson.M{
		"requestedStatus": report.RequestedStatus,
		"amount":          report.Amount,
		"utr":             report.Utr,
	}
	if report.Date != nil {
		fields["date"] = report.Date
	}
	return s.Repo.SetEntryFields(ctx, loanNo, fields)
}

func (s *CollectionServiceImpl) page(ctx context.Context, entryFilter bson.M, page, limit int64) (common_models.Paged[Closed], error) {
	docs, err := s.Repo.ListWithEntry(ctx, entryFilter, page, limit)
	if err != nil {
		return common_models.Paged[Closed]{}, err
	}
	total, err := s.Repo.CountWithEntry(ctx, entryFilter)
	if err != nil {
		return common_models.Paged[Closed]{}, err
	}
	return common_models.NewPaged(docs, total, page, limit), nil
}

// EntryOf picks the loan entry with the given number out of a borrower
// document, or nil.
func EntryOf(doc *Closed, loanNo string) *LoanEntry {
	for i := range doc.Data {
		if doc.Data[i].LoanNo == loanNo {
			return &doc.Data[i]
		}
	}
	return nil
}

func utrUsed(entry *LoanEntry, utr string) bool {
	if entry.Utr == utr {
		return true
	}
	for _, p := range entry.PartialPaid {
		if p.Utr == utr {
			return true
		}
	}
	return false
}
