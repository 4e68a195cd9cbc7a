package account

import (
	"context"
	"testing"

	"go-los/internal/common/apperr"
	common_models "go-los/internal/common/models"
	"go-los/internal/features/collection"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeClosedRepo struct {
	doc *collection.Closed

	entryFields   []bson.M
	entryUnsets   [][]string
	partialFields []bson.M
	partialUnsets [][]string
}

func (f *fakeClosedRepo) FindByPan(ctx context.Context, pan string) (*collection.Closed, error) {
	return f.doc, nil
}

func (f *fakeClosedRepo) HasActiveEntry(ctx context.Context, pan string) (bool, error) {
	return false, nil
}

func (f *fakeClosedRepo) AppendEntry(ctx context.Context, pan string, entry collection.LoanEntry) error {
	return nil
}

func (f *fakeClosedRepo) FindByLoanNo(ctx context.Context, loanNo string) (*collection.Closed, error) {
	if f.doc != nil && collection.EntryOf(f.doc, loanNo) != nil {
		return f.doc, nil
	}
	return nil, nil
}

func (f *fakeClosedRepo) SetEntryFields(ctx context.Context, loanNo string, fields bson.M) error {
	f.entryFields = append(f.entryFields, fields)
	return nil
}

func (f *fakeClosedRepo) UnsetEntryFields(ctx context.Context, loanNo string, fields ...string) error {
	f.entryUnsets = append(f.entryUnsets, fields)
	return nil
}

func (f *fakeClosedRepo) SetPartialFields(ctx context.Context, loanNo, utr string, fields bson.M) error {
	f.partialFields = append(f.partialFields, fields)
	return nil
}

func (f *fakeClosedRepo) UnsetPartialFields(ctx context.Context, loanNo, utr string, fields ...string) error {
	f.partialUnsets = append(f.partialUnsets, fields)
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

const loanNo = "NMFSPE00000000003"

func verifier() common_models.Actor {
	return common_models.Actor{ID: primitive.NewObjectID(), Name: "Priya"}
}

func repoWithEntry(entry collection.LoanEntry) *fakeClosedRepo {
	entry.LoanNo = loanNo
	return &fakeClosedRepo{doc: &collection.Closed{
		Pan:  "ABCDE1234F",
		Data: []collection.LoanEntry{entry},
	}}
}

func TestVerifyMismatchLeavesFlagsUntouched(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:        true,
		IsDisbursed:     true,
		RequestedStatus: collection.StatusSettled,
		Utr:             "UTR001",
	})
	svc := NewAccountService(repo, zap.NewNop())

	err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR001", collection.StatusClosed)
	if apperr.KindOf(err) != apperr.KindMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if len(repo.entryFields) != 0 || len(repo.partialFields) != 0 {
		t.Error("mismatch must not touch any flag")
	}
}

func TestVerifyMismatchIsRetryable(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:        true,
		IsDisbursed:     true,
		RequestedStatus: collection.StatusSettled,
		Utr:             "UTR001",
	})
	svc := NewAccountService(repo, zap.NewNop())

	// First attempt with the wrong status, then the right one.
	if err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR001", collection.StatusClosed); apperr.KindOf(err) != apperr.KindMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR001", collection.StatusSettled); err != nil {
		t.Fatalf("retry after mismatch failed: %v", err)
	}
}

func TestVerifySettledAppliesTerminalFlags(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:        true,
		IsDisbursed:     true,
		RequestedStatus: collection.StatusSettled,
		Utr:             "UTR001",
	})
	svc := NewAccountService(repo, zap.NewNop())

	if err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR001", collection.StatusSettled); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(repo.entryFields) != 1 {
		t.Fatal("expected one entry update")
	}
	fields := repo.entryFields[0]
	if fields["isSettled"] != true || fields["isVerified"] != true || fields["isActive"] != false {
		t.Errorf("terminal flags = %v", fields)
	}
}

func TestVerifyWriteOffMarksDefaulted(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:        true,
		IsDisbursed:     true,
		RequestedStatus: collection.StatusWriteOff,
		Utr:             "UTR002",
	})
	svc := NewAccountService(repo, zap.NewNop())

	if err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR002", collection.StatusWriteOff); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	fields := repo.entryFields[0]
	if fields["isWriteOff"] != true || fields["defaulted"] != true {
		t.Errorf("write-off flags = %v", fields)
	}
}

func TestVerifyPendingPartialByUtr(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
		PartialPaid: []collection.PartialPayment{
			{Utr: "UTR010", IsPartlyPaid: true},
			{Utr: "UTR011", RequestedStatus: collection.StatusClosed},
		},
	})
	svc := NewAccountService(repo, zap.NewNop())

	if err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR011", collection.StatusClosed); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(repo.partialFields) != 1 {
		t.Fatalf("expected one partial update, got %v", repo.partialFields)
	}
	fields := repo.partialFields[0]
	if fields["isVerified"] != true || fields["isPartlyPaid"] != true {
		t.Errorf("partial fields = %v", fields)
	}
}

func TestVerifyPartialKeepsLoanOpen(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
		PartialPaid: []collection.PartialPayment{
			{Utr: "UTR012", RequestedStatus: collection.StatusSettled},
		},
	})
	svc := NewAccountService(repo, zap.NewNop())

	if err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR012", collection.StatusSettled); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	// Only the sub-entry is touched; terminal flags belong to top-level
	// requests alone.
	if len(repo.entryFields) != 0 {
		t.Errorf("partial confirmation must not touch entry flags, got %v", repo.entryFields)
	}
	if len(repo.entryUnsets) != 0 {
		t.Errorf("partial confirmation must not unset entry fields, got %v", repo.entryUnsets)
	}
}

func TestVerifyPartialStatusMismatch(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
		PartialPaid: []collection.PartialPayment{
			{Utr: "UTR011", RequestedStatus: collection.StatusClosed},
		},
	})
	svc := NewAccountService(repo, zap.NewNop())

	err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR011", collection.StatusSettled)
	if apperr.KindOf(err) != apperr.KindMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if len(repo.partialFields) != 0 || len(repo.entryFields) != 0 {
		t.Error("mismatch must not touch any flag")
	}
}

func TestVerifyNothingPending(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
	})
	svc := NewAccountService(repo, zap.NewNop())

	err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR001", collection.StatusClosed)
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestVerifyInactiveLoan(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsDisbursed:     true,
		RequestedStatus: collection.StatusClosed,
		Utr:             "UTR001",
	})
	svc := NewAccountService(repo, zap.NewNop())

	err := svc.VerifyActivePayment(context.Background(), loanNo, verifier(), "UTR001", collection.StatusClosed)
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestRejectClearsTopLevelRequest(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:        true,
		IsDisbursed:     true,
		RequestedStatus: collection.StatusClosed,
		Utr:             "UTR001",
	})
	svc := NewAccountService(repo, zap.NewNop())

	if err := svc.RejectPaymentVerification(context.Background(), loanNo, "UTR001"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if len(repo.entryUnsets) != 1 || repo.entryUnsets[0][0] != "requestedStatus" {
		t.Errorf("requestedStatus not cleared: %v", repo.entryUnsets)
	}
	if len(repo.entryFields) != 0 {
		t.Error("reject must not apply terminal flags")
	}
}

func TestRejectPendingPartial(t *testing.T) {
	repo := repoWithEntry(collection.LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
		PartialPaid: []collection.PartialPayment{
			{Utr: "UTR011", RequestedStatus: collection.StatusClosed},
		},
	})
	svc := NewAccountService(repo, zap.NewNop())

	if err := svc.RejectPaymentVerification(context.Background(), loanNo, "UTR011"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if len(repo.partialUnsets) != 1 {
		t.Error("partial requestedStatus not cleared")
	}
	if len(repo.partialFields) != 1 || repo.partialFields[0]["isRejected"] != true {
		t.Errorf("partial not flagged rejected: %v", repo.partialFields)
	}
}
