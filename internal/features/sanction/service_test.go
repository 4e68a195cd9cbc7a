package sanction

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/config"
	"go-los/internal/features/application"
	"go-los/internal/features/audit"
	"go-los/internal/features/cam"
	"go-los/internal/features/collection"
	"go-los/internal/features/lead"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSanctionRepo struct {
	sanction *Sanction
}

func (f *fakeSanctionRepo) CreateForApplication(ctx context.Context, applicationID, recommendedBy primitive.ObjectID) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeSanctionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Sanction, error) {
	if f.sanction != nil && f.sanction.ID == id {
		return f.sanction, nil
	}
	return nil, nil
}

func (f *fakeSanctionRepo) FindByApplication(ctx context.Context, applicationID primitive.ObjectID) (*Sanction, error) {
	return f.sanction, nil
}

func (f *fakeSanctionRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Sanction, error) {
	if set, ok := update["$set"].(bson.M); ok {
		if v, ok := set["isApproved"].(bool); ok {
			f.sanction.IsApproved = v
		}
		if v, ok := set["loanNo"].(string); ok {
			f.sanction.LoanNo = v
		}
	}
	return f.sanction, nil
}

func (f *fakeSanctionRepo) DeleteByApplication(ctx context.Context, applicationID primitive.ObjectID) error {
	return nil
}

func (f *fakeSanctionRepo) List(ctx context.Context, filter bson.M, page, limit int64) ([]Sanction, error) {
	return nil, nil
}

func (f *fakeSanctionRepo) Count(ctx context.Context, filter bson.M) (int64, error) { return 0, nil }
func (f *fakeSanctionRepo) HighestLoanNo(ctx context.Context) (string, error)       { return "", nil }
func (f *fakeSanctionRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

type fakeAppRepo struct {
	app      *application.Application
	approved bool
}

func (f *fakeAppRepo) CreateForLead(ctx context.Context, leadID primitive.ObjectID) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeAppRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*application.Application, error) {
	if f.app != nil && f.app.ID == id {
		return f.app, nil
	}
	return nil, nil
}

func (f *fakeAppRepo) FindByLead(ctx context.Context, leadID primitive.ObjectID) (*application.Application, error) {
	return f.app, nil
}

func (f *fakeAppRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*application.Application, error) {
	if set, ok := update["$set"].(bson.M); ok {
		if v, ok := set["isApproved"].(bool); ok {
			f.approved = v
		}
	}
	return f.app, nil
}

func (f *fakeAppRepo) DeleteByLead(ctx context.Context, leadID primitive.ObjectID) error { return nil }

func (f *fakeAppRepo) List(ctx context.Context, filter bson.M, page, limit int64) ([]application.Application, error) {
	return nil, nil
}

func (f *fakeAppRepo) Count(ctx context.Context, filter bson.M) (int64, error) { return 0, nil }

type fakeLeadRepo struct {
	lead *lead.Lead
}

func (f *fakeLeadRepo) Create(ctx context.Context, l *lead.Lead) error { return nil }

func (f *fakeLeadRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*lead.Lead, error) {
	if f.lead != nil && f.lead.ID == id {
		return f.lead, nil
	}
	return nil, nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*lead.Lead, error) {
	return f.lead, nil
}

func (f *fakeLeadRepo) List(ctx context.Context, filter bson.M, page, limit int64) ([]lead.Lead, error) {
	return nil, nil
}

func (f *fakeLeadRepo) Count(ctx context.Context, filter bson.M) (int64, error) { return 0, nil }

type fakeCamRepo struct {
	details *cam.CamDetails
	updated bson.M
}

func (f *fakeCamRepo) FindByLead(ctx context.Context, leadID primitive.ObjectID) (*cam.CamDetails, error) {
	return f.details, nil
}

func (f *fakeCamRepo) UpdateDetails(ctx context.Context, leadID primitive.ObjectID, fields bson.M) (*cam.CamDetails, error) {
	f.updated = fields
	return f.details, nil
}

type fakeClosedRepo struct {
	hasActive bool
	appended  []collection.LoanEntry
}

func (f *fakeClosedRepo) FindByPan(ctx context.Context, pan string) (*collection.Closed, error) {
	return nil, nil
}

func (f *fakeClosedRepo) HasActiveEntry(ctx context.Context, pan string) (bool, error) {
	return f.hasActive, nil
}

func (f *fakeClosedRepo) AppendEntry(ctx context.Context, pan string, entry collection.LoanEntry) error {
	f.appended = append(f.appended, entry)
	return nil
}

func (f *fakeClosedRepo) FindByLoanNo(ctx context.Context, loanNo string) (*collection.Closed, error) {
	return nil, nil
}

func (f *fakeClosedRepo) SetEntryFields(ctx context.Context, loanNo string, fields bson.M) error {
	return nil
}

func (f *fakeClosedRepo) UnsetEntryFields(ctx context.Context, loanNo string, fields ...string) error {
	return nil
}

func (f *fakeClosedRepo) SetPartialFields(ctx context.Context, loanNo, utr string, fields bson.M) error {
	return nil
}

func (f *fakeClosedRepo) UnsetPartialFields(ctx context.Context, loanNo, utr string, fields ...string) error {
	return nil
}

func (f *fakeClosedRepo) PushPartial(ctx context.Context, loanNo string, payment collection.PartialPayment) error {
	return nil
}

func (f *fakeClosedRepo) ListWithEntry(ctx context.Context, entryFilter bson.M, page, limit int64) ([]collection.Closed, error) {
	return nil, nil
}

func (f *fakeClosedRepo) CountWithEntry(ctx context.Context, entryFilter bson.M) (int64, error) {
	return 0, nil
}

func (f *fakeClosedRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeSeqRepo struct {
	next  int64
	draws int
}

func (f *fakeSeqRepo) Next(ctx context.Context, name string) (int64, error) {
	f.draws++
	f.next++
	return f.next, nil
}

func (f *fakeSeqRepo) Seed(ctx context.Context, name string, from int64) error { return nil }

type fakeDisbursalCreator struct {
	created []string
	err     error
}

func (f *fakeDisbursalCreator) CreateForSanction(ctx context.Context, sanctionID primitive.ObjectID, loanNo string) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	f.created = append(f.created, loanNo)
	return primitive.NewObjectID(), nil
}

type fakeTx struct{}

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
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

type fixture struct {
	svc      SanctionService
	sanction *fakeSanctionRepo
	apps     *fakeAppRepo
	cam      *fakeCamRepo
	closed   *fakeClosedRepo
	seq      *fakeSeqRepo
	disb     *fakeDisbursalCreator
	audit    *fakeAudit
}

func newFixture() *fixture {
	leadRec := &lead.Lead{
		ID:    primitive.NewObjectID(),
		FName: "Ravi",
		Pan:   "ABCDE1234F",
	}
	app := &application.Application{
		ID:   primitive.NewObjectID(),
		Lead: leadRec.ID,
	}
	sanctionRec := &Sanction{
		ID:          primitive.NewObjectID(),
		Application: app.ID,
	}
	tomorrow := time.Now().Add(24 * time.Hour)
	details := &cam.CamDetails{
		Lead: leadRec.ID,
		Details: cam.Details{
			LoanRecommended: 100000,
			Roi:             0.1,
			DisbursalDate:   &tomorrow,
		},
	}

	f := &fixture{
		sanction: &fakeSanctionRepo{sanction: sanctionRec},
		apps:     &fakeAppRepo{app: app},
		cam:      &fakeCamRepo{details: details},
		closed:   &fakeClosedRepo{},
		seq:      &fakeSeqRepo{},
		disb:     &fakeDisbursalCreator{},
		audit:    &fakeAudit{},
	}
	cfg := &config.Config{LoanPrefix: "NMFSPE", LoanSeqPad: 11}
	f.svc = NewSanctionService(
		f.sanction, f.apps, &fakeLeadRepo{lead: leadRec},
		f.cam, f.closed, f.seq, f.disb, &fakeTx{}, f.audit, cfg,
	)
	return f
}

func approver() common_models.Actor {
	return common_models.Actor{ID: primitive.NewObjectID(), Name: "Meena"}
}

func TestApproveAssignsFirstLoanNumber(t *testing.T) {
	f := newFixture()

	got, err := f.svc.Approve(context.Background(), f.sanction.sanction.ID.Hex(), approver(), "ok")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if got.LoanNo != "NMFSPE00000000001" {
		t.Errorf("first loan number = %q, want NMFSPE00000000001", got.LoanNo)
	}
	if !got.IsApproved {
		t.Error("sanction not flagged approved")
	}
	if !f.apps.approved {
		t.Error("application not flagged approved")
	}
	if len(f.disb.created) != 1 || f.disb.created[0] != got.LoanNo {
		t.Errorf("disbursal not created with loan number, got %v", f.disb.created)
	}
	if len(f.closed.appended) != 1 {
		t.Fatalf("ledger entry not appended")
	}
	entry := f.closed.appended[0]
	if entry.LoanNo != got.LoanNo || !entry.IsActive {
		t.Errorf("ledger entry = %+v, want active entry for %s", entry, got.LoanNo)
	}
	if len(f.audit.statuses) == 0 {
		t.Error("approval must leave an audit entry")
	}
}

func TestApproveActivePanConflict(t *testing.T) {
	f := newFixture()
	f.closed.hasActive = true

	_, err := f.svc.Approve(context.Background(), f.sanction.sanction.ID.Hex(), approver(), "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if f.seq.draws != 0 {
		t.Error("conflict must not burn a sequence number")
	}
	if len(f.disb.created) != 0 {
		t.Error("conflict must not create a disbursal")
	}
	if f.sanction.sanction.IsApproved {
		t.Error("conflict must not approve the sanction")
	}
}

func TestApproveBlockedWhenHeld(t *testing.T) {
	f := newFixture()
	f.sanction.sanction.OnHold = true

	_, err := f.svc.Approve(context.Background(), f.sanction.sanction.ID.Hex(), approver(), "")
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestApproveBlockedWhenAlreadyApproved(t *testing.T) {
	f := newFixture()
	f.sanction.sanction.IsApproved = true

	_, err := f.svc.Approve(context.Background(), f.sanction.sanction.ID.Hex(), approver(), "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if f.seq.draws != 0 {
		t.Error("re-approval must not burn a sequence number")
	}
}

func TestApprovePastDisbursalDate(t *testing.T) {
	f := newFixture()
	yesterday := time.Now().Add(-48 * time.Hour)
	f.cam.details.Details.DisbursalDate = &yesterday

	_, err := f.svc.Approve(context.Background(), f.sanction.sanction.ID.Hex(), approver(), "")
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestApprovePropagatesDisbursalFailure(t *testing.T) {
	f := newFixture()
	f.disb.err = errors.New("write failed")

	_, err := f.svc.Approve(context.Background(), f.sanction.sanction.ID.Hex(), approver(), "")
	if err == nil {
		t.Fatal("expected failure to propagate")
	}
	if len(f.closed.appended) != 0 {
		t.Error("ledger entry must not land after a failed step")
	}
	if len(f.audit.statuses) != 0 {
		t.Error("no audit entry on a failed approval")
	}
}

func TestApproveUnknownSanction(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Approve(context.Background(), primitive.NewObjectID().Hex(), approver(), "")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
