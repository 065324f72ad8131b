// Package controller implements the core business logic (service layer)
// for companies, employees and user accounts, orchestrating repository
// operations and sending the relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface for companies and employees.
type Repository interface {
	ListCompanies(ctx context.Context, params shaping.CompanyParameters) ([]dbm.Company, int64, error)
	AllCompanies(ctx context.Context) ([]dbm.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*dbm.Company, error)
	GetCompaniesByIDs(ctx context.Context, ids []uuid.UUID) ([]dbm.Company, error)
	CompanyExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateCompany(ctx context.Context, company *dbm.Company) error
	CreateCompanies(ctx context.Context, companies []dbm.Company) error
	UpdateCompany(ctx context.Context, company *dbm.Company) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error

	ListEmployees(ctx context.Context, companyID uuid.UUID, params shaping.EmployeeParameters) ([]dbm.Employee, int64, error)
	GetEmployee(ctx context.Context, companyID, id uuid.UUID) (*dbm.Employee, error)
	CreateEmployee(ctx context.Context, employee *dbm.Employee) error
	UpdateEmployee(ctx context.Context, employee *dbm.Employee) error
	DeleteEmployee(ctx context.Context, companyID, id uuid.UUID) error
}

var companyShaper = shaping.NewDataShaper[models.CompanyDto]()

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// GetAllCompanies returns one shaped page of companies and its metadata.
func (s *CompanyService) GetAllCompanies(ctx context.Context, params shaping.CompanyParameters) ([]shaping.ShapedEntity, shaping.MetaData, error) {
	params.Normalize()

	companies, count, err := s.repo.ListCompanies(ctx, params)
	if err != nil {
		return nil, shaping.MetaData{}, fmt.Errorf("failed to list companies: %w", err)
	}

	dtos := companiesToDtos(companies)
	meta := shaping.NewMetaData(count, params.PageNumber, params.PageSize)
	return companyShaper.ShapeData(dtos, params.Fields), meta, nil
}

// GetCompanies returns every company without paging.
func (s *CompanyService) GetCompanies(ctx context.Context) ([]models.CompanyDto, error) {
	companies, err := s.repo.AllCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companiesToDtos(companies), nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyDto, error) {
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := companyToDto(company)
	return &dto, nil
}

// GetByIDs returns exactly the listed companies or fails.
func (s *CompanyService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CompanyDto, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: parameter ids is null", e.ErrInvalidInput)
	}

	companies, err := s.repo.GetCompaniesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	if len(companies) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: collection count mismatch comparing to ids", e.ErrInvalidInput)
	}
	return companiesToDtos(companies), nil
}

// CreateCompany validates the payload and stores the company together with
// any employees it lists.
func (s *CompanyService) CreateCompany(ctx context.Context, dto *models.CompanyForCreationDto) (*models.CompanyDto, error) {
	if dto == nil {
		return nil, fmt.Errorf("%w: company object is null", e.ErrInvalidInput)
	}
	if err := models.Validate(dto); err != nil {
		return nil, err
	}

	company := newCompanyEntity(dto)
	if err := s.repo.CreateCompany(ctx, &company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	created := companyToDto(&company)
	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.Int("employees", len(company.Employees)),
	)
	go s.produceCompany(events.CompanyCreated, created)
	return &created, nil
}

// CreateCompanyCollection stores every company in one transaction. It
// returns the created companies and their ids joined by commas.
func (s *CompanyService) CreateCompanyCollection(ctx context.Context, dtos []models.CompanyForCreationDto) ([]models.CompanyDto, string, error) {
	if len(dtos) == 0 {
		return nil, "", fmt.Errorf("%w: company collection sent from a client is null", e.ErrInvalidInput)
	}

	verr := e.NewValidationError()
	for i := range dtos {
		if err := models.Validate(&dtos[i]); err != nil {
			if !mergeValidation(verr, fmt.Sprintf("[%d].", i), err) {
				return nil, "", err
			}
		}
	}
	if !verr.Empty() {
		return nil, "", verr
	}

	companies := make([]dbm.Company, 0, len(dtos))
	for i := range dtos {
		companies = append(companies, newCompanyEntity(&dtos[i]))
	}
	if err := s.repo.CreateCompanies(ctx, companies); err != nil {
		return nil, "", fmt.Errorf("failed to create companies: %w", err)
	}

	created := companiesToDtos(companies)
	ids := make([]string, 0, len(created))
	for _, c := range created {
		ids = append(ids, c.ID.String())
		go s.produceCompany(events.CompanyCreated, c)
	}
	s.logger.Info("Company collection created", zap.Int("count", len(created)))
	return created, strings.Join(ids, ","), nil
}

// UpdateCompany replaces the company's fields and adds the employees listed
// in the payload.
func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, dto *models.CompanyForUpdateDto) error {
	if dto == nil {
		return fmt.Errorf("%w: company object is null", e.ErrInvalidInput)
	}
	if err := models.Validate(dto); err != nil {
		return err
	}

	company, err := s.getCompany(ctx, id)
	if err != nil {
		return err
	}
	company.Name = dto.Name
	company.Address = dto.Address
	company.Country = dto.Country
	company.Employees = newEmployeeEntities(company.ID, dto.Employees)

	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.CompanyNotFound(id)
		}
		return fmt.Errorf("failed to update company: %w", err)
	}

	go s.produceCompany(events.CompanyUpdated, companyToDto(company))
	return nil
}

// DeleteCompany removes a Company, and its employees, by ID and fires a
// deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.getCompany(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.CompanyNotFound(id)
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.logger.Info("Company deleted", zap.String("company_id", id.String()))
	go s.produceCompany(events.CompanyDeleted, companyToDto(company))
	return nil
}

func (s *CompanyService) getCompany(ctx context.Context, id uuid.UUID) (*dbm.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.CompanyNotFound(id)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) produceCompany(eventType events.EventType, dto models.CompanyDto) {
	event := events.NewEvent(eventType, dto.ID, dto.ID)
	event.Company = &dto
	s.producer.Produce(event)
}

// mergeValidation copies the field messages of err into dst under prefix.
// It reports false when err is not a validation error.
func mergeValidation(dst *e.ValidationError, prefix string, err error) bool {
	var verr *e.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for field, msgs := range verr.Fields {
		for _, m := range msgs {
			dst.Add(prefix+field, m)
		}
	}
	return true
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
