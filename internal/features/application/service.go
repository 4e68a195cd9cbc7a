package application

import (
	"context"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/database"
	"go-los/internal/features/audit"
	"go-los/internal/features/lead"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SanctionCreator breaks the application -> sanction import cycle; the
// sanction repository satisfies it (wired in main).
type SanctionCreator interface {
	CreateForApplication(ctx context.Context, applicationID primitive.ObjectID, recommendedBy primitive.ObjectID) (primitive.ObjectID, error)
}

type ApplicationService interface {
	Get(ctx context.Context, id string) (*Application, error)
	// Allocate assigns the acting credit manager as owner.
	Allocate(ctx context.Context, id string, actor common_models.Actor) (*Application, error)
	// Recommend promotes the application: flags it recommended and creates
	// the sanction record for the sanction head.
	Recommend(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Application, error)
	ListNew(ctx context.Context, page, limit int64) (common_models.Paged[Application], error)
	ListAllocated(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Application], error)
	ListRecommended(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Application], error)
}

type ApplicationServiceImpl struct {
	Repo      ApplicationRepository
	Leads     lead.LeadRepository
	Sanctions SanctionCreator
	Tx        database.TxRunner
	Audit     audit.AuditService
}

func NewApplicationService(repo ApplicationRepository, leads lead.LeadRepository, sanctions SanctionCreator, tx database.TxRunner, auditService audit.AuditService) ApplicationService {
	return &ApplicationServiceImpl{Repo: repo, Leads: leads, Sanctions: sanctions, Tx: tx, Audit: auditService}
}

func (s *ApplicationServiceImpl) Get(ctx context.Context, id string) (*Application, error) {
	return s.mustFind(ctx, id)
}

func (s *ApplicationServiceImpl) Allocate(ctx context.Context, id string, actor common_models.Actor) (*Application, error) {
	app, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.CreditManagerID != nil {
		return nil, apperr.Conflict("application already allocated")
	}

	updated, err := s.Repo.Update(ctx, app.ID, bson.M{"$set": bson.M{"creditManagerId": actor.ID}})
	if err != nil {
		return nil, err
	}
	s.postLog(ctx, app.Lead, "APPLICATION IN PROCESS", "Application allocated to "+actor.Name, "")
	return updated, nil
}

func (s *ApplicationServiceImpl) Recommend(ctx context.Context, id string, actor common_models.Actor, remarks string) (*Application, error) {
	app, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.OnHold {
		return nil, apperr.InvalidTransition("application is on hold")
	}
	if app.IsRejected {
		return nil, apperr.InvalidTransition("application is rejected")
	}
	if app.IsRecommended {
		return nil, apperr.Conflict("application already recommended")
	}

	// Sanction creation and the recommend flag land together or not at
	// all.
	var updated *Application
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.Sanctions.CreateForApplication(txCtx, app.ID, actor.ID); err != nil {
			return err
		}
		updated, err = s.Repo.Update(txCtx, app.ID, bson.M{"$set": bson.M{
			"isRecommended": true,
			"recommendedBy": actor.ID,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.postLog(ctx, app.Lead, "APPLICATION RECOMMENDED. SENDING TO SANCTION HEAD",
		"Application recommended by "+actor.Name, remarks)
	return updated, nil
}

func (s *ApplicationServiceImpl) ListNew(ctx context.Context, page, limit int64) (common_models.Paged[Application], error) {
	query := bson.M{
		"creditManagerId": nil,
		"onHold":          bson.M{"$ne": true},
		"isRejected":      bson.M{"$ne": true},
		"isRecommended":   bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *ApplicationServiceImpl) ListAllocated(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Application], error) {
	query := bson.M{
		"creditManagerId": actor.ID,
		"onHold":          bson.M{"$ne": true},
		"isRejected":      bson.M{"$ne": true},
		"isRecommended":   bson.M{"$ne": true},
	}
	return s.page(ctx, query, page, limit)
}

func (s *ApplicationServiceImpl) ListRecommended(ctx context.Context, actor common_models.Actor, page, limit int64) (common_models.Paged[Application], error) {
	query := bson.M{
		"creditManagerId": actor.ID,
		"isRecommended":   true,
	}
	return s.page(ctx, query, page, limit)
}

func (s *ApplicationServiceImpl) page(ctx context.Context, query bson.M, page, limit int64) (common_models.Paged[Application], error) {
	apps, err := s.Repo.List(ctx, query, page, limit)
	if err != nil {
		return common_models.Paged[Application]{}, err
	}
	total, err := s.Repo.Count(ctx, query)
	if err != nil {
		return common_models.Paged[Application]{}, err
	}
	return common_models.NewPaged(apps, total, page, limit), nil
}

// postLog resolves the borrower name so workflow logs stay readable even
// when only the lead id is at hand.
func (s *ApplicationServiceImpl) postLog(ctx context.Context, leadID primitive.ObjectID, status, leadRemark, remarks string) {
	borrower := ""
	if l, err := s.Leads.FindByID(ctx, leadID); err == nil && l != nil {
		borrower = l.BorrowerName()
	}
	s.Audit.PostLog(ctx, leadID, status, borrower, leadRemark, remarks)
}

func (s *ApplicationServiceImpl) mustFind(ctx context.Context, id string) (*Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("application not found")
	}
	app, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFound("application not found")
	}
	return app, nil
}
