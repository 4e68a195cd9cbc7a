package lead

import (
	"context"
	"errors"
	"testing"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLeadRepo struct {
	lead      *Lead
	updates   []bson.M
	updateErr error
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *Lead) error {
	lead.ID = primitive.NewObjectID()
	f.lead = lead
	return nil
}

func (f *fakeLeadRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Lead, error) {
	if f.lead != nil && f.lead.ID == id {
		return f.lead, nil
	}
	return nil, nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Lead, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, update)
	if set, ok := update["$set"].(bson.M); ok {
		if v, ok := set["isRecommended"].(bool); ok {
			f.lead.IsRecommended = v
		}
		if v, ok := set["screenerId"].(primitive.ObjectID); ok {
			f.lead.ScreenerID = &v
		}
	}
	return f.lead, nil
}

func (f *fakeLeadRepo) List(ctx context.Context, filter bson.M, page, limit int64) ([]Lead, error) {
	return nil, nil
}

func (f *fakeLeadRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return 0, nil
}

type fakeAppCreator struct {
	created int
	err     error
}

func (f *fakeAppCreator) CreateForLead(ctx context.Context, leadID primitive.ObjectID) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	f.created++
	return primitive.NewObjectID(), nil
}

type fakeTx struct {
	runs int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.runs++
	return fn(ctx)
}

type fakeAudit struct {
	statuses []string
}

func (f *fakeAudit) PostLog(ctx context.Context, leadID primitive.ObjectID, status, borrower, leadRemark, remarks string) *audit.Log {
	f.statuses = append(f.statuses, status)
	return &audit.Log{Status: status}
}

func (f *fakeAudit) ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]audit.Log, error) {
	return nil, nil
}

func testActor() common_models.Actor {
	return common_models.Actor{ID: primitive.NewObjectID(), Name: "Asha"}
}

func newTestLead() *Lead {
	return &Lead{
		ID:    primitive.NewObjectID(),
		FName: "Ravi",
		LName: "Kumar",
		Pan:   "ABCDE1234F",
	}
}

func TestCreateRejectsBadPan(t *testing.T) {
	svc := NewLeadService(&fakeLeadRepo{}, &fakeAppCreator{}, &fakeTx{}, &fakeAudit{})

	err := svc.Create(context.Background(), &Lead{FName: "Ravi", Pan: "not-a-pan"})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestAllocateConflictWhenOwned(t *testing.T) {
	owner := primitive.NewObjectID()
	lead := newTestLead()
	lead.ScreenerID = &owner
	repo := &fakeLeadRepo{lead: lead}
	svc := NewLeadService(repo, &fakeAppCreator{}, &fakeTx{}, &fakeAudit{})

	_, err := svc.Allocate(context.Background(), lead.ID.Hex(), testActor())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Error("allocate must not write on conflict")
	}
}

func TestAllocateAssignsScreener(t *testing.T) {
	lead := newTestLead()
	repo := &fakeLeadRepo{lead: lead}
	svc := NewLeadService(repo, &fakeAppCreator{}, &fakeTx{}, &fakeAudit{})

	actor := testActor()
	got, err := svc.Allocate(context.Background(), lead.ID.Hex(), actor)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if got.ScreenerID == nil || *got.ScreenerID != actor.ID {
		t.Error("screener not assigned")
	}
}

func TestRecommendBlockedWhenHeld(t *testing.T) {
	lead := newTestLead()
	lead.OnHold = true
	apps := &fakeAppCreator{}
	svc := NewLeadService(&fakeLeadRepo{lead: lead}, apps, &fakeTx{}, &fakeAudit{})

	_, err := svc.Recommend(context.Background(), lead.ID.Hex(), testActor(), "")
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if apps.created != 0 {
		t.Error("no application may be created for a held lead")
	}
}

func TestRecommendBlockedWhenRejected(t *testing.T) {
	lead := newTestLead()
	lead.IsRejected = true
	svc := NewLeadService(&fakeLeadRepo{lead: lead}, &fakeAppCreator{}, &fakeTx{}, &fakeAudit{})

	_, err := svc.Recommend(context.Background(), lead.ID.Hex(), testActor(), "")
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestRecommendCreatesApplicationAndFlags(t *testing.T) {
	lead := newTestLead()
	repo := &fakeLeadRepo{lead: lead}
	apps := &fakeAppCreator{}
	auditLog := &fakeAudit{}
	svc := NewLeadService(repo, apps, &fakeTx{}, auditLog)

	got, err := svc.Recommend(context.Background(), lead.ID.Hex(), testActor(), "clean profile")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if apps.created != 1 {
		t.Errorf("expected one application, got %d", apps.created)
	}
	if !got.IsRecommended {
		t.Error("lead not flagged recommended")
	}
	if len(auditLog.statuses) == 0 {
		t.Error("recommend must leave an audit entry")
	}
}

func TestRecommendCreatesAndFlagsInOneTransaction(t *testing.T) {
	lead := newTestLead()
	repo := &fakeLeadRepo{lead: lead}
	apps := &fakeAppCreator{}
	tx := &fakeTx{}
	svc := NewLeadService(repo, apps, tx, &fakeAudit{})

	if _, err := svc.Recommend(context.Background(), lead.ID.Hex(), testActor(), ""); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if tx.runs != 1 {
		t.Errorf("expected one transaction, got %d", tx.runs)
	}
	if apps.created != 1 || len(repo.updates) != 1 {
		t.Error("application create and lead flag must both land in the transaction")
	}
}

func TestRecommendFlagFailurePropagates(t *testing.T) {
	lead := newTestLead()
	repo := &fakeLeadRepo{lead: lead, updateErr: errors.New("write conflict")}
	apps := &fakeAppCreator{}
	auditLog := &fakeAudit{}
	svc := NewLeadService(repo, apps, &fakeTx{}, auditLog)

	if _, err := svc.Recommend(context.Background(), lead.ID.Hex(), testActor(), ""); err == nil {
		t.Fatal("expected error when the flag update fails")
	}
	if len(auditLog.statuses) != 0 {
		t.Error("no audit entry may be written for a failed recommend")
	}
}

func TestRecommendTwiceConflicts(t *testing.T) {
	lead := newTestLead()
	lead.IsRecommended = true
	apps := &fakeAppCreator{}
	svc := NewLeadService(&fakeLeadRepo{lead: lead}, apps, &fakeTx{}, &fakeAudit{})

	_, err := svc.Recommend(context.Background(), lead.ID.Hex(), testActor(), "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if apps.created != 0 {
		t.Error("duplicate recommend must not create another application")
	}
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	svc := NewLeadService(&fakeLeadRepo{}, &fakeAppCreator{}, &fakeTx{}, &fakeAudit{})

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
