package lead

import (
	"context"
	"regexp"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/database"
	"go-los/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// ApplicationCreator breaks the lead -> application import cycle; the
// application repository satisfies it (wired in main).
type ApplicationCreator interface {
	CreateForLead(ctx context.Context, leadID primitive.ObjectID) (primitive.ObjectID, error)
}

type LeadService interface {
	Create(ctx context.Context, lead *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	// Allocate assigns the acting screener as owner of an unassigned lead.
	Allocate(ctx context.Context, id string, actor common_models.Actor) (*Lead, error)
	// Recommend promotes the lead: flags it recommended and creates the
	// credit-review Application.
	Recommend(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Lead, error)
	ListNew(ctx context.Context, page, limit int64) (common_models.Paged[Lead], error)
	ListAllocated(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Lead], error)
}

type LeadServiceImpl struct {
	Repo  LeadRepository
	Apps  ApplicationCreator
	Tx    database.TxRunner
	Audit audit.AuditService
}

func NewLeadService(repo LeadRepository, apps ApplicationCreator, tx database.TxRunner, auditService audit.AuditService) LeadService {
	return &LeadServiceImpl{Repo: repo, Apps: apps, Tx: tx, Audit: auditService}
}

func (s *LeadServiceImpl) Create(ctx context.Context, lead *Lead) error {
	if !panRegex.MatchString(lead.Pan) {
		return apperr.New(apperr.KindInvalidTransition, "invalid PAN")
	}
	if err := s.Repo.Create(ctx, lead); err != nil {
		return err
	}
	s.Audit.PostLog(ctx, lead.ID, "NEW LEAD", lead.BorrowerName(), "Lead created", "")
	return nil
}

func (s *LeadServiceImpl) Get(ctx context.Context, id string) (*Lead, error) {
	return s.mustFind(ctx, id)
}

func (s *LeadServiceImpl) Allocate(ctx context.Context, id string, actor common_models.Actor) (*Lead, error) {
	lead, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.ScreenerID != nil {
		return nil, apperr.Conflict("lead already allocated")
	}

	updated, err := s.Repo.Update(ctx, lead.ID, bson.M{"$set": bson.M{"screenerId": actor.ID}})
	if err != nil {
		return nil, err
	}
	s.Audit.PostLog(ctx, lead.ID, "LEAD IN PROCESS", lead.BorrowerName(),
		"Lead allocated to "+actor.Name, "")
	return updated, nil
}

func (s *LeadServiceImpl) Recommend(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Lead, error) {
	lead, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.OnHold {
		return nil, apperr.InvalidTransition("lead is on hold")
	}
	if lead.IsRejected {
		return nil, apperr.InvalidTransition("lead is rejected")
	}
	if lead.IsRecommended {
		return nil, apperr.Conflict("lead already recommended")
	}

	// Application creation and the recommend flag land together or not
	// at all.
	var updated *Lead
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.Apps.CreateForLead(txCtx, lead.ID); err != nil {
			return err
		}
		updated, err = s.Repo.Update(txCtx, lead.ID, bson.M{"$set": bson.M{
			"isRecommended": true,
			"recommendedBy": actor.ID,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Audit.PostLog(ctx, lead.ID, "LEAD RECOMMENDED. SENDING TO CREDIT MANAGER",
		lead.BorrowerName(), "Lead recommended by "+actor.Name, remarks)
	return updated, nil
}

func (s *LeadServiceImpl) ListNew(ctx context.Context, page, limit int64) (common_models.Paged[Lead], error) {
	query := bson.M{
		"screenerId":    nil,
		"onHold":        bson.M{"$ne": true},
		"isRejected":    bson.M{"$ne": true},
		"isRecommended": bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *LeadServiceImpl) ListAllocated(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Lead], error) {
	query := bson.M{
		"screenerId":    actor.ID,
		"onHold":        bson.M{"$ne": true},
		"isRejected":    bson.M{"$ne": true},
		"isRecommended": bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *LeadServiceImpl) page(ctx context.Context, query bson.M, page, limit int64) (common_models.Paged[Lead], error) {
	leads, err := s.Repo.List(ctx, query, page, limit)
	if err != nil {
		return common_models.Paged[Lead]{}, err
	}
	total, err := s.Repo.Count(ctx, query)
	if err != nil {
		return common_models.Paged[Lead]{}, err
	}
	return common_models.NewPaged(leads, total, page, limit), nil
}

func (s *LeadServiceImpl) mustFind(ctx context.Context, id string) (*Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("lead not found")
	}
	lead, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperr.NotFound("lead not found")
	}
	return lead, nil
}
