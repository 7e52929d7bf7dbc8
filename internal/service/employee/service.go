package employee

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/domain/company"
	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	db          *database.DB
	repo        employee.EmployeeRepository
	companyRepo company.CompanyRepository
}

func NewEmployeeService(db *database.DB, repo employee.EmployeeRepository, companyRepo company.CompanyRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{db: db, repo: repo, companyRepo: companyRepo}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e := employee.Employee{
		CompanyID:   req.CompanyID,
		Code:        strings.ToUpper(req.Code),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       strings.ToLower(req.Email),
		TRN:         req.TRN,
		NISNumber:   req.NISNumber,
		Department:  req.Department,
		BankName:    req.BankName,
		BankAccount: req.BankAccount,
		BaseSalary:  decimal.Zero,
		Status:      employee.StatusActive,
	}
	if req.BaseSalary != nil {
		e.BaseSalary = *req.BaseSalary
	}
	if req.JoinDate != nil {
		joined, _ := validator.IsValidDate(*req.JoinDate)
		e.JoinDate = &joined
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(created), nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(found), nil
}

// GetByCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByCode(ctx context.Context, code string) (employee.EmployeeResponse, error) {
	found, err := s.repo.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(found), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToEmployeeResponse(e))
	}
	return responses, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FirstName != nil {
		existing.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		existing.LastName = *req.LastName
	}
	if req.Email != nil {
		existing.Email = strings.ToLower(*req.Email)
	}
	if req.TRN != nil {
		existing.TRN = req.TRN
	}
	if req.NISNumber != nil {
		existing.NISNumber = req.NISNumber
	}
	if req.Department != nil {
		existing.Department = req.Department
	}
	if req.BankName != nil {
		existing.BankName = req.BankName
	}
	if req.BankAccount != nil {
		existing.BankAccount = req.BankAccount
	}
	if req.BaseSalary != nil {
		existing.BaseSalary = *req.BaseSalary
	}
	if req.Status != nil {
		existing.Status = employee.Status(*req.Status)
	}
	if req.JoinDate != nil {
		if *req.JoinDate == "" {
			existing.JoinDate = nil
		} else {
			joined, _ := validator.IsValidDate(*req.JoinDate)
			existing.JoinDate = &joined
		}
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(updated), nil
}

// Terminate implements employee.EmployeeService. Terminated employees stop
// appearing in payroll generation but their history stays queryable.
func (s *EmployeeServiceImpl) Terminate(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if existing.Status == employee.StatusTerminated {
		return employee.EmployeeResponse{}, employee.ErrEmployeeTerminated
	}

	existing.Status = employee.StatusTerminated
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(updated), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
