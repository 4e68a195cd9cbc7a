package employee

import (
	"context"
	"testing"

	"go-los/internal/common/apperr"
	"go-los/internal/common/roles"
	"go-los/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	byEmail map[string]*Employee
	created []*Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, emp *Employee) error {
	f.created = append(f.created, emp)
	return nil
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Employee, error) {
	for _, emp := range f.byEmail {
		if emp.ID == id {
			return emp, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	return f.byEmail[email], nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]Employee, error) { return nil, nil }
func (f *fakeEmployeeRepo) EnsureIndexes(ctx context.Context) error      { return nil }

func newService(repo *fakeEmployeeRepo) EmployeeService {
	return NewEmployeeService(repo, &config.Config{JWTSecret: "test-secret"})
}

func seededRepo(t *testing.T, empRoles ...roles.Role) (*fakeEmployeeRepo, *Employee) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	emp := &Employee{
		ID:       primitive.NewObjectID(),
		FName:    "Asha",
		Email:    "asha@example.com",
		Password: string(hash),
		Roles:    empRoles,
		IsActive: true,
	}
	return &fakeEmployeeRepo{byEmail: map[string]*Employee{emp.Email: emp}}, emp
}

func TestLoginIssuesToken(t *testing.T) {
	repo, emp := seededRepo(t, roles.Screener)
	svc := newService(repo)

	token, got, err := svc.Login(context.Background(), emp.Email, "s3cret", string(roles.Screener))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if got.ID != emp.ID {
		t.Error("wrong employee returned")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo, emp := seededRepo(t, roles.Screener)
	svc := newService(repo)

	_, _, err := svc.Login(context.Background(), emp.Email, "wrong", string(roles.Screener))
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newService(&fakeEmployeeRepo{byEmail: map[string]*Employee{}})

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret", string(roles.Screener))
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestLoginInactiveEmployee(t *testing.T) {
	repo, emp := seededRepo(t, roles.Screener)
	emp.IsActive = false
	svc := newService(repo)

	_, _, err := svc.Login(context.Background(), emp.Email, "s3cret", string(roles.Screener))
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestLoginActiveRoleNotHeld(t *testing.T) {
	repo, emp := seededRepo(t, roles.Screener)
	svc := newService(repo)

	_, _, err := svc.Login(context.Background(), emp.Email, "s3cret", string(roles.SanctionHead))
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestLoginActiveRoleViaHierarchy(t *testing.T) {
	repo, emp := seededRepo(t, roles.SanctionHead)
	svc := newService(repo)

	// Sanction head subsumes credit manager.
	if _, _, err := svc.Login(context.Background(), emp.Email, "s3cret", string(roles.CreditManager)); err != nil {
		t.Fatalf("login via subsumed role failed: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo, emp := seededRepo(t, roles.Screener)
	svc := newService(repo)

	err := svc.Register(context.Background(), &Employee{Email: emp.Email}, "pw")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterUnknownRole(t *testing.T) {
	svc := newService(&fakeEmployeeRepo{byEmail: map[string]*Employee{}})

	err := svc.Register(context.Background(), &Employee{
		Email: "new@example.com",
		Roles: []roles.Role{"janitor"},
	}, "pw")
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := &fakeEmployeeRepo{byEmail: map[string]*Employee{}}
	svc := newService(repo)

	emp := &Employee{Email: "new@example.com", Roles: []roles.Role{roles.Screener}}
	if err := svc.Register(context.Background(), emp, "plaintext"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatal("employee not stored")
	}
	stored := repo.created[0]
	if stored.Password == "plaintext" {
		t.Error("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("plaintext")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if !stored.IsActive {
		t.Error("new employee must start active")
	}
}
