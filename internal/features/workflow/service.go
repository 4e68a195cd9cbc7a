package workflow

import (
	"context"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/common/roles"
	"go-los/internal/database"
	"go-los/internal/features/application"
	"go-los/internal/features/audit"
	"go-los/internal/features/collection"
	"go-los/internal/features/disbursal"
	"go-los/internal/features/lead"
	"go-los/internal/features/sanction"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StageRecords bundles per-stage results for the held and rejected
// listings. Only the slices owned by the caller's role are populated;
// admins get all of them.
type StageRecords struct {
	Leads        []lead.Lead               `json:"leads,omitempty"`
	Applications []application.Application `json:"applications,omitempty"`
	Sanctions    []sanction.Sanction       `json:"sanctions,omitempty"`
	Disbursals   []disbursal.Disbursal     `json:"disbursals,omitempty"`
}

// WorkflowService implements the lateral operations every pipeline stage
// shares. The record acted on is chosen by the actor's active role:
// screeners act on leads, credit managers on applications, sanction
// heads on sanctions, disbursal staff on disbursals.
type WorkflowService interface {
	Hold(ctx context.Context, id string, actor common_models.Actor, reason string) error
	// Unhold is idempotent: releasing a record that is not held succeeds
	// without touching it.
	Unhold(ctx context.Context, id string, actor common_models.Actor, reason string) error
	// Reject is terminal. A disbursal reject also closes the mirrored
	// ledger entry in the same transaction.
	Reject(ctx context.Context, id string, actor common_models.Actor, reason string) error
	// SendBack returns a record to the immediate predecessor role,
	// deleting the current-stage record where the original flow does.
	SendBack(ctx context.Context, id string, actor common_models.Actor, targetRole roles.Role, reason string) error
	ListHeld(ctx context.Context, actor common_models.Actor, page, limit int64) (StageRecords, error)
	ListRejected(ctx context.Context, actor common_models.Actor, page, limit int64) (StageRecords, error)
}

type WorkflowServiceImpl struct {
	Leads      lead.LeadRepository
	Apps       application.ApplicationRepository
	Sanctions  sanction.SanctionRepository
	Disbursals disbursal.DisbursalRepository
	Closed     collection.ClosedRepository
	Tx         database.TxRunner
	Audit      audit.AuditService
}

func NewWorkflowService(
	leads lead.LeadRepository,
	apps application.ApplicationRepository,
	sanctions sanction.SanctionRepository,
	disbursals disbursal.DisbursalRepository,
	closed collection.ClosedRepository,
	tx database.TxRunner,
	auditService audit.AuditService,
) WorkflowService {
	return &WorkflowServiceImpl{
		Leads:      leads,
		Apps:       apps,
		Sanctions:  sanctions,
		Disbursals: disbursals,
		Closed:     closed,
		Tx:         tx,
		Audit:      auditService,
	}
}

// stageRecord is the view of any pipeline record the lateral operations
// need: its shared flags plus enough context for the audit trail.
type stageRecord struct {
	id       primitive.ObjectID
	leadID   primitive.ObjectID
	borrower string
	stage    string

	onHold     bool
	isRejected bool
	isTerminal bool
	loanNo     string
}

func (s *WorkflowServiceImpl) Hold(ctx context.Context, id string, actor common_models.Actor, reason string) error {
	rec, update, err := s.loadStage(ctx, id, actor.Role)
	if err != nil {
		return err
	}
	if rec.isRejected {
		return apperr.InvalidTransition(rec.stage + " is rejected")
	}
	if rec.isTerminal {
		return apperr.InvalidTransition(rec.stage + " already moved on")
	}
	if rec.onHold {
		return apperr.Conflict(rec.stage + " already on hold")
	}

	if err := update(ctx, bson.M{"$set": bson.M{"onHold": true, "heldBy": actor.ID}}); err != nil {
		return err
	}
	s.Audit.PostLog(ctx, rec.leadID, "ON HOLD", rec.borrower,
		"Put on hold by "+actor.Name, reason)
	return nil
}

func (s *WorkflowServiceImpl) Unhold(ctx context.Context, id string, actor common_models.Actor, reason string) error {
	rec, update, err := s.loadStage(ctx, id, actor.Role)
	if err != nil {
		return err
	}
	if !rec.onHold {
		return nil
	}

	if err := update(ctx, bson.M{
		"$set":   bson.M{"onHold": false},
		"$unset": bson.M{"heldBy": ""},
	}); err != nil {
		return err
	}
	s.Audit.PostLog(ctx, rec.leadID, "HOLD RELEASED", rec.borrower,
		"Hold released by "+actor.Name, reason)
	return nil
}

func (s *WorkflowServiceImpl) Reject(ctx context.Context, id string, actor common_models.Actor, reason string) error {
	rec, update, err := s.loadStage(ctx, id, actor.Role)
	if err != nil {
		return err
	}
	if rec.isRejected {
		return apperr.Conflict(rec.stage + " already rejected")
	}
	if rec.isTerminal {
		return apperr.InvalidTransition(rec.stage + " already moved on")
	}

	reject := bson.M{
		"$set": bson.M{
			"isRejected": true,
			"rejectedBy": actor.ID,
			"onHold":     false,
		},
		"$unset": bson.M{"heldBy": ""},
	}

	if rec.stage == "disbursal" && rec.loanNo != "" {
		err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := update(txCtx, reject); err != nil {
				return err
			}
			return s.Closed.SetEntryFields(txCtx, rec.loanNo, bson.M{
				"isActive": false,
				"isClosed": true,
			})
		})
	} else {
		err = update(ctx, reject)
	}
	if err != nil {
		return err
	}

	s.Audit.PostLog(ctx, rec.leadID, "REJECTED", rec.borrower,
		"Rejected by "+actor.Name, reason)
	return nil
}

func (s *WorkflowServiceImpl) SendBack(ctx context.Context, id string, actor common_models.Actor, targetRole roles.Role, reason string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("record not found")
	}

	switch actor.Role {
	case roles.CreditManager:
		if targetRole != roles.Screener {
			return apperr.InvalidTransition("credit manager can only send back to screener")
		}
		return s.sendBackApplication(ctx, oid, actor, reason)
	case roles.SanctionHead:
		if targetRole != roles.CreditManager {
			return apperr.InvalidTransition("sanction head can only send back to credit manager")
		}
		return s.sendBackSanction(ctx, oid, actor, reason)
	case roles.DisbursalHead:
		if targetRole != roles.DisbursalManager {
			return apperr.InvalidTransition("disbursal head can only send back to disbursal manager")
		}
		return s.sendBackDisbursal(ctx, oid, actor, reason)
	default:
		return apperr.Authorization("role cannot send back")
	}
}

// sendBackApplication deletes the application and reopens the lead for
// the screener.
func (s *WorkflowServiceImpl) sendBackApplication(ctx context.Context, id primitive.ObjectID, actor common_models.Actor, reason string) error {
	app, err := s.Apps.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if app == nil {
		return apperr.NotFound("application not found")
	}
	if app.IsRejected || app.IsRecommended {
		return apperr.InvalidTransition("application already decided")
	}
	leadRec, err := s.Leads.FindByID(ctx, app.Lead)
	if err != nil {
		return err
	}
	if leadRec == nil {
		return apperr.NotFound("lead not found for application")
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Apps.DeleteByLead(txCtx, app.Lead); err != nil {
			return err
		}
		_, err := s.Leads.Update(txCtx, app.Lead, bson.M{
			"$set":   bson.M{"isRecommended": false},
			"$unset": bson.M{"recommendedBy": ""},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.Audit.PostLog(ctx, leadRec.ID, "SENT BACK TO SCREENER", leadRec.BorrowerName(),
		"Sent back by "+actor.Name, reason)
	return nil
}

// sendBackSanction deletes the sanction and reopens the application for
// the credit manager.
func (s *WorkflowServiceImpl) sendBackSanction(ctx context.Context, id primitive.ObjectID, actor common_models.Actor, reason string) error {
	sanctionRec, err := s.Sanctions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sanctionRec == nil {
		return apperr.NotFound("sanction not found")
	}
	if sanctionRec.IsRejected || sanctionRec.IsApproved {
		return apperr.InvalidTransition("sanction already decided")
	}
	app, err := s.Apps.FindByID(ctx, sanctionRec.Application)
	if err != nil {
		return err
	}
	if app == nil {
		return apperr.NotFound("application not found for sanction")
	}
	leadRec, err := s.Leads.FindByID(ctx, app.Lead)
	if err != nil {
		return err
	}
	if leadRec == nil {
		return apperr.NotFound("lead not found for sanction")
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Sanctions.DeleteByApplication(txCtx, app.ID); err != nil {
			return err
		}
		_, err := s.Apps.Update(txCtx, app.ID, bson.M{
			"$set":   bson.M{"isRecommended": false},
			"$unset": bson.M{"recommendedBy": ""},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.Audit.PostLog(ctx, leadRec.ID, "SENT BACK TO CREDIT MANAGER", leadRec.BorrowerName(),
		"Sent back by "+actor.Name, reason)
	return nil
}

// sendBackDisbursal only clears the recommend flags: the disbursal
// record itself survives for the manager to rework.
func (s *WorkflowServiceImpl) sendBackDisbursal(ctx context.Context, id primitive.ObjectID, actor common_models.Actor, reason string) error {
	disbursalRec, err := s.Disbursals.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if disbursalRec == nil {
		return apperr.NotFound("disbursal not found")
	}
	if disbursalRec.IsRejected || disbursalRec.IsDisbursed {
		return apperr.InvalidTransition("disbursal already decided")
	}

	if _, err := s.Disbursals.Update(ctx, disbursalRec.ID, bson.M{
		"$set":   bson.M{"isRecommended": false},
		"$unset": bson.M{"recommendedBy": ""},
	}); err != nil {
		return err
	}

	if leadRec := s.leadForDisbursal(ctx, disbursalRec); leadRec != nil {
		s.Audit.PostLog(ctx, leadRec.ID, "SENT BACK TO DISBURSAL MANAGER", leadRec.BorrowerName(),
			"Sent back by "+actor.Name, reason)
	}
	return nil
}

func (s *WorkflowServiceImpl) ListHeld(ctx context.Context, actor common_models.Actor, page, limit int64) (StageRecords, error) {
	return s.listFlagged(ctx, actor, bson.M{"onHold": true}, page, limit)
}

func (s *WorkflowServiceImpl) ListRejected(ctx context.Context, actor common_models.Actor, page, limit int64) (StageRecords, error) {
	return s.listFlagged(ctx, actor, bson.M{"isRejected": true}, page, limit)
}

func (s *WorkflowServiceImpl) listFlagged(ctx context.Context, actor common_models.Actor, filter bson.M, page, limit int64) (StageRecords, error) {
	var out StageRecords
	var err error

	expanded := roles.Expand([]roles.Role{actor.Role})
	all := actor.Role == roles.Admin

	if all || expanded[roles.Screener] {
		if out.Leads, err = s.Leads.List(ctx, filter, page, limit); err != nil {
			return out, err
		}
	}
	if all || expanded[roles.CreditManager] {
		if out.Applications, err = s.Apps.List(ctx, filter, page, limit); err != nil {
			return out, err
		}
	}
	if all || expanded[roles.SanctionHead] {
		if out.Sanctions, err = s.Sanctions.List(ctx, filter, page, limit); err != nil {
			return out, err
		}
	}
	if all || expanded[roles.DisbursalManager] || expanded[roles.DisbursalHead] {
		if out.Disbursals, err = s.Disbursals.List(ctx, filter, page, limit); err != nil {
			return out, err
		}
	}
	return out, nil
}

type updateFn func(ctx context.Context, update bson.M) error

// loadStage fetches the record the actor's role owns and returns it as
// the flag view plus an update closure bound to the right repository.
func (s *WorkflowServiceImpl) loadStage(ctx context.Context, id string, role roles.Role) (*stageRecord, updateFn, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperr.NotFound("record not found")
	}

	switch role {
	case roles.Screener:
		rec, err := s.Leads.FindByID(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		if rec == nil {
			return nil, nil, apperr.NotFound("lead not found")
		}
		return &stageRecord{
				id:         rec.ID,
				leadID:     rec.ID,
				borrower:   rec.BorrowerName(),
				stage:      "lead",
				onHold:     rec.OnHold,
				isRejected: rec.IsRejected,
				isTerminal: rec.IsRecommended,
			}, func(ctx context.Context, update bson.M) error {
				_, err := s.Leads.Update(ctx, rec.ID, update)
				return err
			}, nil

	case roles.CreditManager:
		rec, err := s.Apps.FindByID(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		if rec == nil {
			return nil, nil, apperr.NotFound("application not found")
		}
		borrower, leadID := s.leadContext(ctx, rec.Lead)
		return &stageRecord{
				id:         rec.ID,
				leadID:     leadID,
				borrower:   borrower,
				stage:      "application",
				onHold:     rec.OnHold,
				isRejected: rec.IsRejected,
				isTerminal: rec.IsRecommended,
			}, func(ctx context.Context, update bson.M) error {
				_, err := s.Apps.Update(ctx, rec.ID, update)
				return err
			}, nil

	case roles.SanctionHead:
		rec, err := s.Sanctions.FindByID(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		if rec == nil {
			return nil, nil, apperr.NotFound("sanction not found")
		}
		borrower, leadID := "", primitive.NilObjectID
		if app, err := s.Apps.FindByID(ctx, rec.Application); err == nil && app != nil {
			borrower, leadID = s.leadContext(ctx, app.Lead)
		}
		return &stageRecord{
				id:         rec.ID,
				leadID:     leadID,
				borrower:   borrower,
				stage:      "sanction",
				onHold:     rec.OnHold,
				isRejected: rec.IsRejected,
				isTerminal: rec.IsApproved,
			}, func(ctx context.Context, update bson.M) error {
				_, err := s.Sanctions.Update(ctx, rec.ID, update)
				return err
			}, nil

	case roles.DisbursalManager, roles.DisbursalHead:
		rec, err := s.Disbursals.FindByID(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		if rec == nil {
			return nil, nil, apperr.NotFound("disbursal not found")
		}
		borrower, leadID := "", primitive.NilObjectID
		if leadRec := s.leadForDisbursal(ctx, rec); leadRec != nil {
			borrower, leadID = leadRec.BorrowerName(), leadRec.ID
		}
		return &stageRecord{
				id:         rec.ID,
				leadID:     leadID,
				borrower:   borrower,
				stage:      "disbursal",
				onHold:     rec.OnHold,
				isRejected: rec.IsRejected,
				isTerminal: rec.IsDisbursed,
				loanNo:     rec.LoanNo,
			}, func(ctx context.Context, update bson.M) error {
				_, err := s.Disbursals.Update(ctx, rec.ID, update)
				return err
			}, nil

	default:
		return nil, nil, apperr.Authorization("role owns no pipeline stage")
	}
}

func (s *WorkflowServiceImpl) leadContext(ctx context.Context, leadID primitive.ObjectID) (string, primitive.ObjectID) {
	if leadRec, err := s.Leads.FindByID(ctx, leadID); err == nil && leadRec != nil {
		return leadRec.BorrowerName(), leadRec.ID
	}
	return "", leadID
}

func (s *WorkflowServiceImpl) leadForDisbursal(ctx context.Context, rec *disbursal.Disbursal) *lead.Lead {
	sanctionRec, err := s.Sanctions.FindByID(ctx, rec.Sanction)
	if err != nil || sanctionRec == nil {
		return nil
	}
	app, err := s.Apps.FindByID(ctx, sanctionRec.Application)
	if err != nil || app == nil {
		return nil
	}
	leadRec, err := s.Leads.FindByID(ctx, app.Lead)
	if err != nil {
		return nil
	}
	return leadRec
}
