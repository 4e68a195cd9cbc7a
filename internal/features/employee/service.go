package employee

import (
	"context"

	"go-los/internal/common/apperr"
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeService interface {
	Register(ctx context.Context, emp *Employee, password string) error
	Login(ctx context.Context, email, password, activeRole string) (string, *Employee, error)
	Get(ctx context.Context, id string) (*Employee, error)
}

type EmployeeServiceImpl struct {
	Repo EmployeeRepository
	Cfg  *config.Config
}

func NewEmployeeService(repo EmployeeRepository, cfg *config.Config) EmployeeService {
	utils.SetSecret(cfg.JWTSecret)
	return &EmployeeServiceImpl{Repo: repo, Cfg: cfg}
}

func (s *EmployeeServiceImpl) Register(ctx context.Context, emp *Employee, password string) error {
	existing, err := s.Repo.FindByEmail(ctx, emp.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict("employee with this email already exists")
	}
	for _, r := range emp.Roles {
		if !roles.Valid(string(r)) {
			return apperr.Newf(apperr.KindAuthorization, "unknown role %q", r)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	emp.Password = string(hash)
	emp.IsActive = true
	return s.Repo.Create(ctx, emp)
}

func (s *EmployeeServiceImpl) Login(ctx context.Context, email, password, activeRole string) (string, *Employee, error) {
	emp, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if emp == nil || !emp.IsActive {
		return "", nil, apperr.Authorization("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.Password), []byte(password)); err != nil {
		return "", nil, apperr.Authorization("invalid credentials")
	}

	// The active role must be one the employee's role set grants.
	if !roles.Expand(emp.Roles)[roles.Role(activeRole)] {
		return "", nil, apperr.Authorization("active role not held by employee")
	}

	roleStrings := make([]string, 0, len(emp.Roles))
	for _, r := range emp.Roles {
		roleStrings = append(roleStrings, string(r))
	}

	token, err := utils.GenerateToken(emp.ID, emp.FullName(), roleStrings, activeRole)
	if err != nil {
		return "", nil, err
	}
	return token, emp, nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (*Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("employee not found")
	}
	emp, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, apperr.NotFound("employee not found")
	}
	return emp, nil
}
