package sanction

import (
	"context"
	"time"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/config"
	"go-los/internal/database"
	"go-los/internal/features/application"
	"go-los/internal/features/audit"
	"go-los/internal/features/cam"
	"go-los/internal/features/collection"
	"go-los/internal/features/lead"
	"go-los/internal/features/sequence"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisbursalCreator breaks the sanction -> disbursal import cycle; the
// disbursal repository satisfies it (wired in main).
type DisbursalCreator interface {
	CreateForSanction(ctx context.Context, sanctionID primitive.ObjectID, loanNo string) (primitive.ObjectID, error)
}

type SanctionService interface {
	Get(ctx context.Context, id string) (*Sanction, error)
	// Approve assigns the loan number and opens the disbursal stage. The
	// sequence draw, sanction update, disbursal creation and ledger entry
	// commit or roll back as one unit.
	Approve(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Sanction, error)
	ListPending(ctx context.Context, page, limit int64) (common_models.Paged[Sanction], error)
	ListApproved(ctx context.Context, page, limit int64) (common_models.Paged[Sanction], error)
}

type SanctionServiceImpl struct {
	Repo       SanctionRepository
	Apps       application.ApplicationRepository
	Leads      lead.LeadRepository
	Cam        cam.CamRepository
	Closed     collection.ClosedRepository
	Sequences  sequence.SequenceRepository
	Disbursals DisbursalCreator
	Tx         database.TxRunner
	Audit      audit.AuditService
	Config     *config.Config
}

func NewSanctionService(
	repo SanctionRepository,
	apps application.ApplicationRepository,
	leads lead.LeadRepository,
	camRepo cam.CamRepository,
	closed collection.ClosedRepository,
	sequences sequence.SequenceRepository,
	disbursals DisbursalCreator,
	tx database.TxRunner,
	auditService audit.AuditService,
	cfg *config.Config,
) SanctionService {
	return &SanctionServiceImpl{
		Repo:       repo,
		Apps:       apps,
		Leads:      leads,
		Cam:        camRepo,
		Closed:     closed,
		Sequences:  sequences,
		Disbursals: disbursals,
		Tx:         tx,
		Audit:      auditService,
		Config:     cfg,
	}
}

func (s *SanctionServiceImpl) Get(ctx context.Context, id string) (*Sanction, error) {
	sanction, _, _, err := s.resolve(ctx, id)
	return sanction, err
}

func (s *SanctionServiceImpl) Approve(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Sanction, error) {
	sanction, app, leadRec, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if sanction.OnHold {
		return nil, apperr.InvalidTransition("sanction is on hold")
	}
	if sanction.IsRejected {
		return nil, apperr.InvalidTransition("sanction is rejected")
	}
	if sanction.IsApproved {
		return nil, apperr.Conflict("sanction already approved")
	}

	details, err := s.Cam.FindByLead(ctx, leadRec.ID)
	if err != nil {
		return nil, err
	}
	if details == nil || details.Details.DisbursalDate == nil {
		return nil, apperr.InvalidTransition("cam details incomplete")
	}
	if beforeToday(*details.Details.DisbursalDate) {
		return nil, apperr.InvalidTransition("planned disbursal date is in the past")
	}

	active, err := s.Closed.HasActiveEntry(ctx, leadRec.Pan)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperr.Conflict("active loan exists for this PAN")
	}

	var approved *Sanction
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.Sequences.Next(txCtx, sequence.LoanCounter)
		if err != nil {
			return err
		}
		loanNo := sequence.FormatLoanNo(s.Config.LoanPrefix, s.Config.LoanSeqPad, seq)

		now := time.Now()
		approved, err = s.Repo.Update(txCtx, sanction.ID, bson.M{"$set": bson.M{
			"isApproved":   true,
			"approvedBy":   actor.ID,
			"sanctionDate": now,
			"loanNo":       loanNo,
		}})
		if err != nil {
			return err
		}

		if _, err = s.Apps.Update(txCtx, app.ID, bson.M{"$set": bson.M{"isApproved": true}}); err != nil {
			return err
		}

		disbursalID, err := s.Disbursals.CreateForSanction(txCtx, sanction.ID, loanNo)
		if err != nil {
			return err
		}

		return s.Closed.AppendEntry(txCtx, leadRec.Pan, collection.LoanEntry{
			Disbursal: &disbursalID,
			LoanNo:    loanNo,
			IsActive:  true,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Audit.PostLog(ctx, leadRec.ID, "SANCTIONED. SENDING TO DISBURSAL",
		leadRec.BorrowerName(), "Sanctioned by "+actor.Name+", loan no "+approved.LoanNo, remarks)
	return approved, nil
}

func (s *SanctionServiceImpl) ListPending(ctx context.Context, page, limit int64) (common_models.Paged[Sanction], error) {
	query := bson.M{
		"onHold":     bson.M{"$ne": true},
		"isRejected": bson.M{"$ne": true},
		"isApproved": bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *SanctionServiceImpl) ListApproved(ctx context.Context, page, limit int64) (common_models.Paged[Sanction], error) {
	return s.page(ctx, bson.M{"isApproved": true}, page, limit)
}

func (s *SanctionServiceImpl) page(ctx context.Context, query bson.M, page, limit int64) (common_models.Paged[Sanction], error) {
	sanctions, err := s.Repo.List(ctx, query, page, limit)
	if err != nil {
		return common_models.Paged[Sanction]{}, err
	}
	total, err := s.Repo.Count(ctx, query)
	if err != nil {
		return common_models.Paged[Sanction]{}, err
	}
	return common_models.NewPaged(sanctions, total, page, limit), nil
}

// resolve loads the sanction together with its application and lead;
// a broken reference anywhere surfaces as NotFound.
func (s *SanctionServiceImpl) resolve(ctx context.Context, id string) (*Sanction, *application.Application, *lead.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, nil, apperr.NotFound("sanction not found")
	}
	sanction, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, nil, nil, err
	}
	if sanction == nil {
		return nil, nil, nil, apperr.NotFound("sanction not found")
	}
	app, err := s.Apps.FindByID(ctx, sanction.Application)
	if err != nil {
		return nil, nil, nil, err
	}
	if app == nil {
		return nil, nil, nil, apperr.NotFound("application not found for sanction")
	}
	leadRec, err := s.Leads.FindByID(ctx, app.Lead)
	if err != nil {
		return nil, nil, nil, err
	}
	if leadRec == nil {
		return nil, nil, nil, apperr.NotFound("lead not found for sanction")
	}
	return sanction, app, leadRec, nil
}

func beforeToday(t time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.Before(today)
}
