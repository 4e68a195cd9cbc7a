package collection

import (
	"context"
	"testing"

	"go-los/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeClosedRepo struct {
	doc *Closed

	pushed      []PartialPayment
	entryFields []bson.M
}

func (f *fakeClosedRepo) FindByPan(ctx context.Context, pan string) (*Closed, error) {
	return f.doc, nil
}

func (f *fakeClosedRepo) HasActiveEntry(ctx context.Context, pan string) (bool, error) {
	return false, nil
}

func (f *fakeClosedRepo) AppendEntry(ctx context.Context, pan string, entry LoanEntry) error {
	return nil
}

func (f *fakeClosedRepo) FindByLoanNo(ctx context.Context, loanNo string) (*Closed, error) {
	if f.doc != nil && EntryOf(f.doc, loanNo) != nil {
		return f.doc, nil
	}
	return nil, nil
}

func (f *fakeClosedRepo) SetEntryFields(ctx context.Context, loanNo string, fields bson.M) error {
	f.entryFields = append(f.entryFields, fields)
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

func (f *fakeClosedRepo) PushPartial(ctx context.Context, loanNo string, payment PartialPayment) error {
	f.pushed = append(f.pushed, payment)
	return nil
}

func (f *fakeClosedRepo) ListWithEntry(ctx context.Context, entryFilter bson.M, page, limit int64) ([]Closed, error) {
	return nil, nil
}

func (f *fakeClosedRepo) CountWithEntry(ctx context.Context, entryFilter bson.M) (int64, error) {
	return 0, nil
}

func (f *fakeClosedRepo) EnsureIndexes(ctx context.Context) error { return nil }

const loanNo = "NMFSPE00000000007"

func repoWithEntry(entry LoanEntry) *fakeClosedRepo {
	entry.LoanNo = loanNo
	return &fakeClosedRepo{doc: &Closed{
		Pan:  "ABCDE1234F",
		Data: []LoanEntry{entry},
	}}
}

func TestReportPaymentPushesPartial(t *testing.T) {
	repo := repoWithEntry(LoanEntry{IsActive: true, IsDisbursed: true})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Amount:       5000,
		Utr:          "UTR100",
		IsPartlyPaid: true,
	})
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(repo.pushed) != 1 {
		t.Fatal("expected one partial payment push")
	}
	p := repo.pushed[0]
	if p.Utr != "UTR100" || p.Amount != 5000 {
		t.Errorf("pushed payment = %+v", p)
	}
	// The flag is reserved for account-executive confirmation.
	if p.IsPartlyPaid {
		t.Error("report must not pre-mark the payment as partly paid")
	}
	if len(repo.entryFields) != 0 {
		t.Error("partial report must not touch top-level fields")
	}
}

func TestReportPaymentFullSettlement(t *testing.T) {
	repo := repoWithEntry(LoanEntry{IsActive: true, IsDisbursed: true})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Amount:          104000,
		Utr:             "UTR200",
		RequestedStatus: StatusClosed,
	})
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(repo.entryFields) != 1 {
		t.Fatal("expected one entry update")
	}
	fields := repo.entryFields[0]
	if fields["requestedStatus"] != StatusClosed || fields["utr"] != "UTR200" {
		t.Errorf("entry fields = %v", fields)
	}
}

func TestReportPaymentDuplicateUtr(t *testing.T) {
	repo := repoWithEntry(LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
		PartialPaid: []PartialPayment{{Utr: "UTR300", IsPartlyPaid: true}},
	})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Amount:       1000,
		Utr:          "UTR300",
		IsPartlyPaid: true,
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.pushed) != 0 {
		t.Error("duplicate utr must not be recorded")
	}
}

func TestReportPaymentTopLevelUtrAlsoCounts(t *testing.T) {
	repo := repoWithEntry(LoanEntry{
		IsActive:    true,
		IsDisbursed: true,
		Utr:         "UTR400",
	})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Utr:          "UTR400",
		IsPartlyPaid: true,
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestReportPaymentUnknownStatus(t *testing.T) {
	repo := repoWithEntry(LoanEntry{IsActive: true, IsDisbursed: true})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Utr:             "UTR500",
		RequestedStatus: "paused",
	})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestReportPaymentRequiresUtr(t *testing.T) {
	repo := repoWithEntry(LoanEntry{IsActive: true, IsDisbursed: true})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Amount:       1000,
		IsPartlyPaid: true,
	})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestReportPaymentInactiveLoan(t *testing.T) {
	repo := repoWithEntry(LoanEntry{IsDisbursed: true})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Utr:          "UTR600",
		IsPartlyPaid: true,
	})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestReportPaymentFullNeedsStatus(t *testing.T) {
	repo := repoWithEntry(LoanEntry{IsActive: true, IsDisbursed: true})
	svc := NewCollectionService(repo)

	err := svc.ReportPayment(context.Background(), loanNo, PaymentReport{
		Amount: 104000,
		Utr:    "UTR700",
	})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if len(repo.entryFields) != 0 {
		t.Error("incomplete report must not write")
	}
}

func TestGetByLoanNoUnknown(t *testing.T) {
	svc := NewCollectionService(&fakeClosedRepo{})

	_, _, err := svc.GetByLoanNo(context.Background(), "NMFSPE00000000099")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
