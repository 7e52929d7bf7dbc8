package redundancy

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/islandhr/payroll-backend-go/internal/domain/employee"
	"github.com/islandhr/payroll-backend-go/internal/domain/redundancy"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/validator"
	"github.com/islandhr/payroll-backend-go/internal/repository/postgresql"
)

// Award bands under the Employment (Termination and Redundancy Payments)
// Act: two weeks per year for the first ten years, three weeks per year
// after that. Service below two full years earns nothing.
const (
	minServiceYears  = 2
	firstBandYears   = 10
	firstBandWeeks   = 2
	secondBandWeeks  = 3
	weeksPerYearBase = 52
)

type RedundancyServiceImpl struct {
	db           *database.DB
	repo         redundancy.RedundancyRepository
	employeeRepo employee.EmployeeRepository
}

func NewRedundancyService(db *database.DB, repo redundancy.RedundancyRepository, employeeRepo employee.EmployeeRepository) redundancy.RedundancyService {
	return &RedundancyServiceImpl{db: db, repo: repo, employeeRepo: employeeRepo}
}

// Create implements redundancy.RedundancyService.
func (s *RedundancyServiceImpl) Create(ctx context.Context, req redundancy.CreateRedundancyRequest) (redundancy.RedundancyResponse, error) {
	if err := req.Validate(); err != nil {
		return redundancy.RedundancyResponse{}, err
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	if emp.CompanyID != req.CompanyID {
		return redundancy.RedundancyResponse{}, employee.ErrEmployeeNotFound
	}
	if emp.JoinDate == nil {
		return redundancy.RedundancyResponse{}, redundancy.ErrNoJoinDate
	}

	terminationDate, _ := validator.IsValidDate(req.TerminationDate)

	years := serviceYears(*emp.JoinDate, terminationDate)
	if years < minServiceYears {
		return redundancy.RedundancyResponse{}, redundancy.ErrInsufficientService
	}

	weeklyPay := emp.BaseSalary.Mul(decimal.NewFromInt(12)).Div(decimal.NewFromInt(weeksPerYearBase))
	weeks := weeksAwarded(years)
	gross := weeklyPay.Mul(weeks)
	noticePay := weeklyPay.Mul(decimal.NewFromInt(int64(req.NoticeWeeks)))

	created, err := s.repo.Create(ctx, redundancy.Redundancy{
		CompanyID:       req.CompanyID,
		EmployeeID:      emp.ID,
		TerminationDate: terminationDate,
		YearsOfService:  years,
		WeeklyPay:       weeklyPay,
		WeeksAwarded:    weeks,
		GrossAmount:     gross,
		NoticePay:       noticePay,
		TotalAmount:     gross.Add(noticePay),
		Status:          redundancy.StatusDraft,
	})
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	return redundancy.ToRedundancyResponse(&created), nil
}

// GetByID implements redundancy.RedundancyService.
func (s *RedundancyServiceImpl) GetByID(ctx context.Context, id string) (redundancy.RedundancyResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	return redundancy.ToRedundancyResponse(&found), nil
}

// List implements redundancy.RedundancyService.
func (s *RedundancyServiceImpl) List(ctx context.Context, filter redundancy.RedundancyFilter) ([]redundancy.RedundancyResponse, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]redundancy.RedundancyResponse, 0, len(records))
	for i := range records {
		responses = append(responses, redundancy.ToRedundancyResponse(&records[i]))
	}
	return responses, nil
}

// Approve implements redundancy.RedundancyService.
func (s *RedundancyServiceImpl) Approve(ctx context.Context, id string, req redundancy.ApproveRedundancyRequest) (redundancy.RedundancyResponse, error) {
	if err := req.Validate(); err != nil {
		return redundancy.RedundancyResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	if existing.Status != redundancy.StatusDraft {
		return redundancy.RedundancyResponse{}, redundancy.ErrRedundancyNotDraft
	}

	now := time.Now()
	existing.Status = redundancy.StatusApproved
	existing.ApprovedBy = &req.ApprovedBy
	existing.ApprovedAt = &now

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	return redundancy.ToRedundancyResponse(&updated), nil
}

// MarkPaid implements redundancy.RedundancyService. Payment and termination
// move together so a paid award never leaves the employee active.
func (s *RedundancyServiceImpl) MarkPaid(ctx context.Context, id string) (redundancy.RedundancyResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	if existing.Status == redundancy.StatusPaid {
		return redundancy.RedundancyResponse{}, redundancy.ErrAlreadyPaid
	}
	if existing.Status != redundancy.StatusApproved {
		return redundancy.RedundancyResponse{}, redundancy.ErrNotApproved
	}

	var updated redundancy.Redundancy
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		now := time.Now()
		existing.Status = redundancy.StatusPaid
		existing.PaidAt = &now

		var err error
		updated, err = s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		emp, err := s.employeeRepo.GetByID(txCtx, existing.EmployeeID)
		if err != nil {
			return err
		}
		if emp.Status != employee.StatusTerminated {
			emp.Status = employee.StatusTerminated
			if _, err := s.employeeRepo.Update(txCtx, emp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return redundancy.RedundancyResponse{}, err
	}
	return redundancy.ToRedundancyResponse(&updated), nil
}

// serviceYears counts completed years between the join and termination dates.
func serviceYears(joinDate, terminationDate time.Time) int {
	years := terminationDate.Year() - joinDate.Year()
	anniversary := joinDate.AddDate(years, 0, 0)
	if anniversary.After(terminationDate) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func weeksAwarded(years int) decimal.Decimal {
	if years <= firstBandYears {
		return decimal.NewFromInt(int64(years * firstBandWeeks))
	}
	first := firstBandYears * firstBandWeeks
	rest := (years - firstBandYears) * secondBandWeeks
	return decimal.NewFromInt(int64(first + rest))
}
