package db

import (
	"context"

	"github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListEmployees returns one page of a company's employees filtered by age
// range and name, together with the number of matching rows.
func (r *Repository) ListEmployees(ctx context.Context, companyID uuid.UUID, params shaping.EmployeeParameters) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("company_id = ?", companyID).
		Where("age >= ? AND age <= ?", params.MinAge, params.MaxAge)
	if params.SearchTerm != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(params.SearchTerm))
	}

	// A fresh session lets the same conditions serve both queries.
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	err := query.
		Order(orderClause(params.OrderBy, employeeColumns, "name asc")).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, count, nil
}

func (r *Repository) GetEmployee(ctx context.Context, companyID, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "id = ? AND company_id = ?", id, companyID)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &employee, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// UpdateEmployee overwrites the scalar columns of an existing employee.
func (r *Repository) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ? AND company_id = ?", employee.ID, employee.CompanyID).
		Updates(map[string]interface{}{
			"name":     employee.Name,
			"age":      employee.Age,
			"position": employee.Position,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ? AND company_id = ?", id, companyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
