package controller

import (
	dbm "github.com/gartstein/companyemployees/internal/company/db/models"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/google/uuid"
)

func companyToDto(c *dbm.Company) models.CompanyDto {
	return models.CompanyDto{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
		Country: c.Country,
	}
}

func companiesToDtos(companies []dbm.Company) []models.CompanyDto {
	dtos := make([]models.CompanyDto, 0, len(companies))
	for i := range companies {
		dtos = append(dtos, companyToDto(&companies[i]))
	}
	return dtos
}

func employeeToDto(emp *dbm.Employee) models.EmployeeDto {
	return models.EmployeeDto{
		ID:       emp.ID,
		Name:     emp.Name,
		Age:      emp.Age,
		Position: emp.Position,
	}
}

func employeesToDtos(employees []dbm.Employee) []models.EmployeeDto {
	dtos := make([]models.EmployeeDto, 0, len(employees))
	for i := range employees {
		dtos = append(dtos, employeeToDto(&employees[i]))
	}
	return dtos
}

func newCompanyEntity(dto *models.CompanyForCreationDto) dbm.Company {
	id := uuid.New()
	return dbm.Company{
		ID:        id,
		Name:      dto.Name,
		Address:   dto.Address,
		Country:   dto.Country,
		Employees: newEmployeeEntities(id, dto.Employees),
	}
}

func newEmployeeEntity(companyID uuid.UUID, dto *models.EmployeeForCreationDto) dbm.Employee {
	return dbm.Employee{
		ID:        uuid.New(),
		Name:      dto.Name,
		Age:       dto.Age,
		Position:  dto.Position,
		CompanyID: companyID,
	}
}

func newEmployeeEntities(companyID uuid.UUID, dtos []models.EmployeeForCreationDto) []dbm.Employee {
	if len(dtos) == 0 {
		return nil
	}
	employees := make([]dbm.Employee, 0, len(dtos))
	for i := range dtos {
		employees = append(employees, newEmployeeEntity(companyID, &dtos[i]))
	}
	return employees
}

func employeeForUpdate(emp *dbm.Employee) models.EmployeeForUpdateDto {
	return models.EmployeeForUpdateDto{
		Name:     emp.Name,
		Age:      emp.Age,
		Position: emp.Position,
	}
}

func applyEmployeeUpdate(emp *dbm.Employee, dto *models.EmployeeForUpdateDto) {
	emp.Name = dto.Name
	emp.Age = dto.Age
	emp.Position = dto.Position
}
