package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuditService records workflow events. A failed write is logged and
// swallowed: the audit trail must never block the transition that produced
// the event.
type AuditService interface {
	PostLog(ctx context.Context, leadID primitive.ObjectID, status, borrower, leadRemark, remarks string) *Log
	ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]Log, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{Repo: repo, Logger: logger}
}

func (s *AuditServiceImpl) PostLog(ctx context.Context, leadID primitive.ObjectID, status, borrower, leadRemark, remarks string) *Log {
	log := &Log{
		Lead:       leadID,
		LogDate:    time.Now(),
		Status:     status,
		Borrower:   borrower,
		LeadRemark: leadRemark,
		Remarks:    remarks,
	}
	if err := s.Repo.Create(ctx, log); err != nil {
		s.Logger.Error("failed to write workflow log",
			zap.String("lead", leadID.Hex()),
			zap.String("status", status),
			zap.Error(err))
	}
	return log
}

func (s *AuditServiceImpl) ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]Log, error) {
	return s.Repo.ListByLead(ctx, leadID)
}
