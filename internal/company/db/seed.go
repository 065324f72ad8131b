package db

import (
	"context"
	"fmt"

	"github.com/gartstein/companyemployees/internal/company/db/models"
	"github.com/google/uuid"
)

func sampleCompanies() []models.Company {
	itSolutions := uuid.MustParse("c9d4c053-49b6-410c-bc78-2d54a9991870")
	adminSolutions := uuid.MustParse("3d490a70-94ce-4d15-9494-5248280c2ce3")
	return []models.Company{
		{
			ID:      itSolutions,
			Name:    "IT_Solutions Ltd",
			Address: "583 Wall Dr. Gwynn Oak, MD 21207",
			Country: "USA",
			Employees: []models.Employee{
				{ID: uuid.MustParse("80abbca8-664d-4b20-b5de-024705497d4a"), Name: "Sam Raiden", Age: 26, Position: "Software developer", CompanyID: itSolutions},
				{ID: uuid.MustParse("86dba8c0-d178-41e7-938c-ed49778fb52a"), Name: "Jana McLeaf", Age: 30, Position: "Software developer", CompanyID: itSolutions},
			},
		},
		{
			ID:      adminSolutions,
			Name:    "Admin_Solutions Ltd",
			Address: "312 Forest Avenue, BF 923",
			Country: "USA",
			Employees: []models.Employee{
				{ID: uuid.MustParse("021ca3c1-0deb-4afd-ae94-2159a8479811"), Name: "Kane Miller", Age: 35, Position: "Administrator", CompanyID: adminSolutions},
			},
		},
	}
}

// SeedSampleData inserts two demo companies with their employees into an
// empty database. It reports whether anything was written.
func (r *Repository) SeedSampleData(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := r.CreateCompanies(ctx, sampleCompanies()); err != nil {
		return false, fmt.Errorf("failed to seed sample data: %w", err)
	}
	return true, nil
}
