package advance

import (
	"context"
	"time"

	"github.com/islandhr/payroll-backend-go/internal/domain/advance"
	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/period"
)

type AdvanceServiceImpl struct {
	db           *database.DB
	repo         advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
}

func NewAdvanceService(db *database.DB, repo advance.AdvanceRepository, employeeRepo employee.EmployeeRepository) advance.AdvanceService {
	return &AdvanceServiceImpl{db: db, repo: repo, employeeRepo: employeeRepo}
}

// Create implements advance.AdvanceService. New advances start PENDING and
// only enter payroll recovery once approved.
func (s *AdvanceServiceImpl) Create(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if emp.CompanyID != req.CompanyID {
		return advance.AdvanceResponse{}, employee.ErrEmployeeNotFound
	}
	if emp.Status != employee.StatusActive {
		return advance.AdvanceResponse{}, employee.ErrEmployeeTerminated
	}

	created, err := s.repo.Create(ctx, advance.AdvancePayment{
		CompanyID:      req.CompanyID,
		EmployeeID:     emp.ID,
		Amount:         req.Amount,
		Reason:         req.Reason,
		RequestDate:    time.Now(),
		RecoveryPeriod: req.RecoveryPeriod,
		Status:         advance.StatusPending,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToAdvanceResponse(&created), nil
}

// GetByID implements advance.AdvanceService.
func (s *AdvanceServiceImpl) GetByID(ctx context.Context, id string) (advance.AdvanceResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToAdvanceResponse(&found), nil
}

// List implements advance.AdvanceService.
func (s *AdvanceServiceImpl) List(ctx context.Context, filter advance.AdvanceFilter) ([]advance.AdvanceResponse, error) {
	if filter.RecoveryPeriod != "" {
		filter.RecoveryPeriod = period.Normalize(filter.RecoveryPeriod)
	}

	advances, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]advance.AdvanceResponse, 0, len(advances))
	for i := range advances {
		responses = append(responses, advance.ToAdvanceResponse(&advances[i]))
	}
	return responses, nil
}

// Approve implements advance.AdvanceService.
func (s *AdvanceServiceImpl) Approve(ctx context.Context, id string, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	return s.decide(ctx, id, req, advance.StatusApproved)
}

// Reject implements advance.AdvanceService.
func (s *AdvanceServiceImpl) Reject(ctx context.Context, id string, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	return s.decide(ctx, id, req, advance.StatusRejected)
}

func (s *AdvanceServiceImpl) decide(ctx context.Context, id string, req advance.ApproveAdvanceRequest, to advance.Status) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if existing.Status != advance.StatusPending {
		return advance.AdvanceResponse{}, advance.ErrAdvanceNotPending
	}

	now := time.Now()
	existing.Status = to
	existing.ApprovedBy = &req.ApprovedBy
	existing.ApprovedAt = &now

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToAdvanceResponse(&updated), nil
}
