// Package dpd recomputes days-past-due for live loans on a daily cron.
package dpd

import (
	"context"
	"time"

	"go-los/internal/features/application"
	"go-los/internal/features/cam"
	"go-los/internal/features/collection"
	"go-los/internal/features/disbursal"
	"go-los/internal/features/sanction"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron       *cron.Cron
	closed     collection.ClosedRepository
	disbursals disbursal.DisbursalRepository
	sanctions  sanction.SanctionRepository
	apps       application.ApplicationRepository
	cam        cam.CamRepository
	logger     *zap.Logger
}

func NewScheduler(
	lc fx.Lifecycle,
	closed collection.ClosedRepository,
	disbursals disbursal.DisbursalRepository,
	sanctions sanction.SanctionRepository,
	apps application.ApplicationRepository,
	camRepo cam.CamRepository,
	logger *zap.Logger,
) *Scheduler {
	s := &Scheduler{
		cron:       cron.New(),
		closed:     closed,
		disbursals: disbursals,
		sanctions:  sanctions,
		apps:       apps,
		cam:        camRepo,
		logger:     logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := s.cron.AddFunc("@daily", s.Run); err != nil {
				return err
			}
			s.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.cron.Stop()
			return nil
		},
	})
	return s
}

// Run walks every live unresolved loan and refreshes its dpd counter.
// One bad record never stops the sweep.
func (s *Scheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	filter := bson.M{
		"isActive":    true,
		"isDisbursed": true,
		"isVerified":  bson.M{"$ne": true},
	}

	var page int64 = 1
	const batch = 100
	updated := 0
	for {
		docs, err := s.closed.ListWithEntry(ctx, filter, page, batch)
		if err != nil {
			s.logger.Error("dpd sweep aborted", zap.Error(err))
			return
		}
		for _, doc := range docs {
			for i := range doc.Data {
				entry := &doc.Data[i]
				if !entry.IsActive || !entry.IsDisbursed || entry.IsVerified {
					continue
				}
				if s.refresh(ctx, entry) {
					updated++
				}
			}
		}
		if int64(len(docs)) < batch {
			break
		}
		page++
	}
	s.logger.Info("dpd sweep finished", zap.Int("updated", updated))
}

func (s *Scheduler) refresh(ctx context.Context, entry *collection.LoanEntry) bool {
	repaymentDate := s.repaymentDateFor(ctx, entry)
	if repaymentDate == nil {
		return false
	}
	dpd := daysPastDue(time.Now(), *repaymentDate)
	if dpd == entry.Dpd {
		return false
	}
	if err := s.closed.SetEntryFields(ctx, entry.LoanNo, bson.M{"dpd": dpd}); err != nil {
		s.logger.Error("dpd update failed",
			zap.String("loanNo", entry.LoanNo),
			zap.Error(err))
		return false
	}
	return true
}

// repaymentDateFor walks disbursal -> sanction -> application -> lead to
// reach the assessment memo. Broken references are skipped quietly.
func (s *Scheduler) repaymentDateFor(ctx context.Context, entry *collection.LoanEntry) *time.Time {
	if entry.Disbursal == nil {
		return nil
	}
	disbursalRec, err := s.disbursals.FindByID(ctx, *entry.Disbursal)
	if err != nil || disbursalRec == nil {
		return nil
	}
	sanctionRec, err := s.sanctions.FindByID(ctx, disbursalRec.Sanction)
	if err != nil || sanctionRec == nil {
		return nil
	}
	app, err := s.apps.FindByID(ctx, sanctionRec.Application)
	if err != nil || app == nil {
		return nil
	}
	details, err := s.cam.FindByLead(ctx, app.Lead)
	if err != nil || details == nil {
		return nil
	}
	return details.Details.RepaymentDate
}

// daysPastDue counts whole days elapsed since the repayment date, never
// negative.
func daysPastDue(now, repaymentDate time.Time) int {
	days := int(now.Sub(repaymentDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
