package controller

import (
	"context"
	"errors"
	"fmt"

	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/patch"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var employeeShaper = shaping.NewDataShaper[models.EmployeeDto]()

// employeePatchFields are the paths a patch document may touch.
var employeePatchFields = patch.Fields[models.EmployeeForUpdateDto]{
	"/name":     patch.String(func(d *models.EmployeeForUpdateDto) *string { return &d.Name }),
	"/age":      patch.Int(func(d *models.EmployeeForUpdateDto) *int { return &d.Age }),
	"/position": patch.String(func(d *models.EmployeeForUpdateDto) *string { return &d.Position }),
}

// EmployeeService manages the employees of a company. Every operation
// fails with a not found error when the company does not exist.
type EmployeeService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewEmployeeService(repo Repository, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("employee_service"),
	}
}

// GetEmployees returns one shaped page of a company's employees.
func (s *EmployeeService) GetEmployees(ctx context.Context, companyID uuid.UUID, params shaping.EmployeeParameters) ([]shaping.ShapedEntity, shaping.MetaData, error) {
	if !params.ValidAgeRange() {
		return nil, shaping.MetaData{}, fmt.Errorf("%w: max age can't be less than min age", e.ErrInvalidInput)
	}
	params.Normalize()

	if err := s.checkCompanyExists(ctx, companyID); err != nil {
		return nil, shaping.MetaData{}, err
	}

	employees, count, err := s.repo.ListEmployees(ctx, companyID, params)
	if err != nil {
		return nil, shaping.MetaData{}, fmt.Errorf("failed to list employees: %w", err)
	}

	meta := shaping.NewMetaData(count, params.PageNumber, params.PageSize)
	return employeeShaper.ShapeData(employeesToDtos(employees), params.Fields), meta, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, companyID, id uuid.UUID) (*models.EmployeeDto, error) {
	if err := s.checkCompanyExists(ctx, companyID); err != nil {
		return nil, err
	}
	employee, err := s.getEmployee(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	dto := employeeToDto(employee)
	return &dto, nil
}

func (s *EmployeeService) CreateEmployeeForCompany(ctx context.Context, companyID uuid.UUID, dto *models.EmployeeForCreationDto) (*models.EmployeeDto, error) {
	if dto == nil {
		return nil, fmt.Errorf("%w: employee object is null", e.ErrInvalidInput)
	}
	if err := models.Validate(dto); err != nil {
		return nil, err
	}
	if err := s.checkCompanyExists(ctx, companyID); err != nil {
		return nil, err
	}

	employee := newEmployeeEntity(companyID, dto)
	if err := s.repo.CreateEmployee(ctx, &employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	created := employeeToDto(&employee)
	go s.produceEmployee(events.EmployeeCreated, companyID, created)
	return &created, nil
}

func (s *EmployeeService) UpdateEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID, dto *models.EmployeeForUpdateDto) error {
	if dto == nil {
		return fmt.Errorf("%w: employee object is null", e.ErrInvalidInput)
	}
	if err := models.Validate(dto); err != nil {
		return err
	}
	if err := s.checkCompanyExists(ctx, companyID); err != nil {
		return err
	}

	employee, err := s.getEmployee(ctx, companyID, id)
	if err != nil {
		return err
	}
	applyEmployeeUpdate(employee, dto)
	return s.saveEmployee(ctx, employee)
}

// PatchEmployeeForCompany applies doc to the employee's update projection,
// revalidates the result and persists it only when both steps succeed.
func (s *EmployeeService) PatchEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID, doc patch.Document) (*models.EmployeeDto, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: patch document object sent from client is null", e.ErrInvalidInput)
	}
	if err := s.checkCompanyExists(ctx, companyID); err != nil {
		return nil, err
	}

	employee, err := s.getEmployee(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	toPatch := employeeForUpdate(employee)
	if err := patch.Apply(doc, &toPatch, employeePatchFields); err != nil {
		return nil, err
	}
	if err := models.Validate(&toPatch); err != nil {
		return nil, err
	}

	applyEmployeeUpdate(employee, &toPatch)
	if err := s.saveEmployee(ctx, employee); err != nil {
		return nil, err
	}
	dto := employeeToDto(employee)
	return &dto, nil
}

func (s *EmployeeService) DeleteEmployeeForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.checkCompanyExists(ctx, companyID); err != nil {
		return err
	}

	err := s.repo.DeleteEmployee(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.EmployeeNotFound(id)
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	deleted := events.NewEvent(events.EmployeeDeleted, id, companyID)
	go s.producer.Produce(deleted)
	return nil
}

func (s *EmployeeService) saveEmployee(ctx context.Context, employee *dbm.Employee) error {
	if err := s.repo.UpdateEmployee(ctx, employee); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.EmployeeNotFound(employee.ID)
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	go s.produceEmployee(events.EmployeeUpdated, employee.CompanyID, employeeToDto(employee))
	return nil
}

func (s *EmployeeService) checkCompanyExists(ctx context.Context, companyID uuid.UUID) error {
	exists, err := s.repo.CompanyExists(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to check company existence: %w", err)
	}
	if !exists {
		return e.CompanyNotFound(companyID)
	}
	return nil
}

func (s *EmployeeService) getEmployee(ctx context.Context, companyID, id uuid.UUID) (*dbm.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.EmployeeNotFound(id)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) produceEmployee(eventType events.EventType, companyID uuid.UUID, dto models.EmployeeDto) {
	event := events.NewEvent(eventType, dto.ID, companyID)
	event.Employee = &dto
	s.producer.Produce(event)
}
