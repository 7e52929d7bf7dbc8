package company

import (
	"context"

	"github.com/islandhr/payroll-backend-go/internal/domain/company"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
)

type CompanyServiceImpl struct {
	db   *database.DB
	repo company.CompanyRepository
}

func NewCompanyService(db *database.DB, repo company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{db: db, repo: repo}
}

// Create implements company.CompanyService.
func (s *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	created, err := s.repo.Create(ctx, company.Company{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
	})
	if err != nil {
		return company.CompanyResponse{}, err
	}

	return company.ToCompanyResponse(created), nil
}

// GetByID implements company.CompanyService.
func (s *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.ToCompanyResponse(found), nil
}

// List implements company.CompanyService.
func (s *CompanyServiceImpl) List(ctx context.Context) ([]company.CompanyResponse, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]company.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, company.ToCompanyResponse(c))
	}
	return responses, nil
}

// Update implements company.CompanyService.
func (s *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Address != nil {
		existing.Address = req.Address
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.ToCompanyResponse(updated), nil
}

// Delete implements company.CompanyService.
func (s *CompanyServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
