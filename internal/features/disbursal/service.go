package disbursal

import (
	"context"
	"math"
	"time"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/database"
	"go-los/internal/features/application"
	"go-los/internal/features/audit"
	"go-los/internal/features/cam"
	"go-los/internal/features/collection"
	"go-los/internal/features/lead"
	"go-los/internal/features/sanction"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is the payout detail supplied by the disbursal head on
// approval. DisbursalDate is the actual payout date, which may differ
// from the one planned in the assessment memo.
type Payment struct {
	PayableAccount string     `json:"payableAccount"`
	PaymentMode    string     `json:"paymentMode"`
	Amount         float64    `json:"amount"`
	Channel        string     `json:"channel"`
	DisbursalDate  *time.Time `json:"disbursalDate"`
}

type DisbursalService interface {
	Get(ctx context.Context, id string) (*Disbursal, error)
	// Allocate assigns the acting disbursal manager as owner.
	Allocate(ctx context.Context, id string, actor common_models.Actor) (*Disbursal, error)
	Recommend(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Disbursal, error)
	// Approve pays out the loan. When the actual date moves from the
	// planned one, tenure and repayment are recomputed and persisted to
	// the memo; the payout flags and the ledger mirror commit together.
	Approve(ctx context.Context, id string, actor common_models.Actor, payment Payment, remarks string) (*Disbursal, error)
	ListNew(ctx context.Context, page, limit int64) (common_models.Paged[Disbursal], error)
	ListAllocated(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Disbursal], error)
	ListPending(ctx context.Context, page, limit int64) (common_models.Paged[Disbursal], error)
	ListDisbursed(ctx context.Context, page, limit int64) (common_models.Paged[Disbursal], error)
}

type DisbursalServiceImpl struct {
	Repo      DisbursalRepository
	Sanctions sanction.SanctionRepository
	Apps      application.ApplicationRepository
	Leads     lead.LeadRepository
	Cam       cam.CamRepository
	Closed    collection.ClosedRepository
	Tx        database.TxRunner
	Audit     audit.AuditService
}

func NewDisbursalService(
	repo DisbursalRepository,
	sanctions sanction.SanctionRepository,
	apps application.ApplicationRepository,
	leads lead.LeadRepository,
	camRepo cam.CamRepository,
	closed collection.ClosedRepository,
	tx database.TxRunner,
	auditService audit.AuditService,
) DisbursalService {
	return &DisbursalServiceImpl{
		Repo:      repo,
		Sanctions: sanctions,
		Apps:      apps,
		Leads:     leads,
		Cam:       camRepo,
		Closed:    closed,
		Tx:        tx,
		Audit:     auditService,
	}
}

func (s *DisbursalServiceImpl) Get(ctx context.Context, id string) (*Disbursal, error) {
	disbursal, _, err := s.resolve(ctx, id)
	return disbursal, err
}

func (s *DisbursalServiceImpl) Allocate(ctx context.Context, id string, actor common_models.Actor) (*Disbursal, error) {
	disbursal, leadRec, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if disbursal.DisbursalManagerID != nil {
		return nil, apperr.Conflict("disbursal already allocated")
	}

	updated, err := s.Repo.Update(ctx, disbursal.ID, bson.M{"$set": bson.M{"disbursalManagerId": actor.ID}})
	if err != nil {
		return nil, err
	}
	s.Audit.PostLog(ctx, leadRec.ID, "DISBURSAL IN PROCESS", leadRec.BorrowerName(),
		"Disbursal allocated to "+actor.Name, "")
	return updated, nil
}

func (s *DisbursalServiceImpl) Recommend(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Disbursal, error) {
	disbursal, leadRec, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if disbursal.OnHold {
		return nil, apperr.InvalidTransition("disbursal is on hold")
	}
	if disbursal.IsRejected {
		return nil, apperr.InvalidTransition("disbursal is rejected")
	}
	if disbursal.IsRecommended {
		return nil, apperr.Conflict("disbursal already recommended")
	}

	updated, err := s.Repo.Update(ctx, disbursal.ID, bson.M{"$set": bson.M{
		"isRecommended": true,
		"recommendedBy": actor.ID,
	}})
	if err != nil {
		return nil, err
	}
	s.Audit.PostLog(ctx, leadRec.ID, "DISBURSAL RECOMMENDED. SENDING TO DISBURSAL HEAD",
		leadRec.BorrowerName(), "Disbursal recommended by "+actor.Name, remarks)
	return updated, nil
}

func (s *DisbursalServiceImpl) Approve(ctx context.Context, id string, actor common_models.Actor, payment Payment, remarks string) (*Disbursal, error) {
	disbursal, leadRec, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if disbursal.OnHold {
		return nil, apperr.InvalidTransition("disbursal is on hold")
	}
	if disbursal.IsRejected {
		return nil, apperr.InvalidTransition("disbursal is rejected")
	}
	if disbursal.IsDisbursed {
		return nil, apperr.Conflict("loan already disbursed")
	}
	if !disbursal.IsRecommended {
		return nil, apperr.InvalidTransition("disbursal not yet recommended")
	}

	details, err := s.Cam.FindByLead(ctx, leadRec.ID)
	if err != nil {
		return nil, err
	}
	if details == nil || details.Details.RepaymentDate == nil || details.Details.DisbursalDate == nil {
		return nil, apperr.InvalidTransition("cam details incomplete")
	}

	disbursedAt := time.Now()
	if payment.DisbursalDate != nil {
		disbursedAt = *payment.DisbursalDate
	}

	var updated *Disbursal
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if !sameDay(disbursedAt, *details.Details.DisbursalDate) {
			tenure := TenureDays(disbursedAt, *details.Details.RepaymentDate)
			if tenure <= 0 {
				return apperr.InvalidTransition("repayment date precedes disbursal date")
			}
			principal := details.Details.LoanRecommended
			repayment := RepaymentAmount(principal, tenure, details.Details.Roi)
			if _, err := s.Cam.UpdateDetails(txCtx, leadRec.ID, bson.M{
				"disbursalDate":   disbursedAt,
				"eligibleTenure":  tenure,
				"repaymentAmount": repayment,
			}); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.Repo.Update(txCtx, disbursal.ID, bson.M{"$set": bson.M{
			"isDisbursed":    true,
			"disbursedBy":    actor.ID,
			"disbursedAt":    disbursedAt,
			"payableAccount": payment.PayableAccount,
			"paymentMode":    payment.PaymentMode,
			"amount":         payment.Amount,
			"channel":        payment.Channel,
		}})
		if err != nil {
			return err
		}

		return s.Closed.SetEntryFields(txCtx, disbursal.LoanNo, bson.M{"isDisbursed": true})
	})
	if err != nil {
		return nil, err
	}

	s.Audit.PostLog(ctx, leadRec.ID, "DISBURSED", leadRec.BorrowerName(),
		"Disbursed by "+actor.Name+", loan no "+disbursal.LoanNo, remarks)
	return updated, nil
}

func (s *DisbursalServiceImpl) ListNew(ctx context.Context, page, limit int64) (common_models.Paged[Disbursal], error) {
	query := bson.M{
		"disbursalManagerId": nil,
		"onHold":             bson.M{"$ne": true},
		"isRejected":         bson.M{"$ne": true},
		"isRecommended":      bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *DisbursalServiceImpl) ListAllocated(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Disbursal], error) {
	query := bson.M{
		"disbursalManagerId": actor.ID,
		"onHold":             bson.M{"$ne": true},
		"isRejected":         bson.M{"$ne": true},
		"isRecommended":      bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *DisbursalServiceImpl) ListPending(ctx context.Context, page, limit int64) (common_models.Paged[Disbursal], error) {
	query := bson.M{
		"isRecommended": true,
		"isDisbursed":   bson.M{"$ne": true},
		"onHold":        bson.M{"$ne": true},
		"isRejected":    bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *DisbursalServiceImpl) ListDisbursed(ctx context.Context, page, limit int64) (common_models.Paged[Disbursal], error) {
	return s.page(ctx, bson.M{"isDisbursed": true}, page, limit)
}

func (s *DisbursalServiceImpl) page(ctx context.Context, query bson.M, page, limit int64) (common_models.Paged[Disbursal], error) {
	disbursals, err := s.Repo.List(ctx, query, page, limit)
	if err != nil {
		return common_models.Paged[Disbursal]{}, err
	}
	total, err := s.Repo.Count(ctx, query)
	if err != nil {
		return common_models.Paged[Disbursal]{}, err
	}
	return common_models.NewPaged(disbursals, total, page, limit), nil
}

// resolve loads the disbursal and walks sanction -> application -> lead
// for audit context.
func (s *DisbursalServiceImpl) resolve(ctx context.Context, id string) (*Disbursal, *lead.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperr.NotFound("disbursal not found")
	}
	disbursal, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, nil, err
	}
	if disbursal == nil {
		return nil, nil, apperr.NotFound("disbursal not found")
	}
	sanctionRec, err := s.Sanctions.FindByID(ctx, disbursal.Sanction)
	if err != nil {
		return nil, nil, err
	}
	if sanctionRec == nil {
		return nil, nil, apperr.NotFound("sanction not found for disbursal")
	}
	app, err := s.Apps.FindByID(ctx, sanctionRec.Application)
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, apperr.NotFound("application not found for disbursal")
	}
	leadRec, err := s.Leads.FindByID(ctx, app.Lead)
	if err != nil {
		return nil, nil, err
	}
	if leadRec == nil {
		return nil, nil, apperr.NotFound("lead not found for disbursal")
	}
	return disbursal, leadRec, nil
}

// TenureDays counts whole days from disbursal to repayment, rounding
// partial days up.
func TenureDays(disbursedAt, repaymentDate time.Time) int {
	return int(math.Ceil(repaymentDate.Sub(disbursedAt).Hours() / 24))
}

// RepaymentAmount applies simple daily interest on the principal.
func RepaymentAmount(principal float64, tenure int, roi float64) float64 {
	return principal + principal*float64(tenure)*roi/100
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
