// Package models defines the data transfer objects exchanged at the API
// boundary, distinct from the persisted entities in db/models.
package models

import (
	"github.com/google/uuid"
)

// CompanyDto is the read representation of a company.
type CompanyDto struct {
	ID      uuid.UUID `json:"id" xml:"Id"`
	Name    string    `json:"name" xml:"Name"`
	Address string    `json:"address" xml:"Address"`
	Country string    `json:"country" xml:"Country"`
}

// CSVHeader implements the CSV formatter contract.
func (c CompanyDto) CSVHeader() []string {
	return []string{"id", "name", "address", "country"}
}

// CSVRecord implements the CSV formatter contract.
func (c CompanyDto) CSVRecord() []string {
	return []string{c.ID.String(), c.Name, c.Address, c.Country}
}

// CompanyForCreationDto is the payload of POST /api/companies. Employees
// listed here are created together with the company.
type CompanyForCreationDto struct {
	Name      string                   `json:"name" xml:"Name" validate:"required,max=100"`
	Address   string                   `json:"address" xml:"Address" validate:"required,max=60"`
	Country   string                   `json:"country" xml:"Country" validate:"required,max=3"`
	Employees []EmployeeForCreationDto `json:"employees,omitempty" xml:"Employees>Employee" validate:"omitempty,dive"`
}

// CompanyForUpdateDto is the payload of PUT /api/companies/{id}. Employees
// listed here are added to the company.
type CompanyForUpdateDto struct {
	Name      string                   `json:"name" xml:"Name" validate:"required,max=100"`
	Address   string                   `json:"address" xml:"Address" validate:"required,max=60"`
	Country   string                   `json:"country" xml:"Country" validate:"required,max=3"`
	Employees []EmployeeForCreationDto `json:"employees,omitempty" xml:"Employees>Employee" validate:"omitempty,dive"`
}
