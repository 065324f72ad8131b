package db

import (
	"context"

	"github.com/gartstein/companyemployees/internal/company/db/models"
	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCompanies returns one page of companies filtered by the search term,
// together with the number of matching rows.
func (r *Repository) ListCompanies(ctx context.Context, params shaping.CompanyParameters) ([]models.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Company{})
	if params.SearchTerm != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(params.SearchTerm))
	}

	// A fresh session lets the same conditions serve both queries.
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var companies []models.Company
	err := query.
		Order(orderClause(params.OrderBy, companyColumns, "name asc")).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, count, nil
}

// AllCompanies returns every company ordered by name.
func (r *Repository) AllCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.WithContext(ctx).Order("name asc").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &company, nil
}

// GetCompaniesByIDs returns the companies whose ids are listed. Missing ids
// are silently absent from the result.
func (r *Repository) GetCompaniesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Company, error) {
	var companies []models.Company
	if len(ids) == 0 {
		return companies, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *Repository) CompanyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// CreateCompany inserts the company and any employees attached to it.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// CreateCompanies inserts several companies, with their employees, in one
// transaction.
func (r *Repository) CreateCompanies(ctx context.Context, companies []models.Company) error {
	if len(companies) == 0 {
		return nil
	}
	return r.WithTransaction(ctx, func(tx *Repository) error {
		return tx.db.Create(&companies).Error
	})
}

// UpdateCompany overwrites the scalar columns of an existing company and
// inserts any employees attached to it.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		result := tx.db.Model(&models.Company{}).
			Where("id = ?", company.ID).
			Updates(map[string]interface{}{
				"name":    company.Name,
				"address": company.Address,
				"country": company.Country,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		if len(company.Employees) == 0 {
			return nil
		}
		for i := range company.Employees {
			company.Employees[i].CompanyID = company.ID
		}
		return tx.db.Create(&company.Employees).Error
	})
}

// DeleteCompany removes the company and its employees in one transaction.
func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Where("company_id = ?", id).Delete(&models.Employee{}).Error; err != nil {
			return err
		}
		result := tx.db.Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}
