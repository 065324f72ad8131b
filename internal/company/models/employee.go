package models

import (
	"strconv"

	"github.com/google/uuid"
)

// EmployeeDto is the read representation of an employee.
type EmployeeDto struct {
	ID       uuid.UUID `json:"id" xml:"Id"`
	Name     string    `json:"name" xml:"Name"`
	Age      int       `json:"age" xml:"Age"`
	Position string    `json:"position" xml:"Position"`
}

// CSVHeader implements the CSV formatter contract.
func (e EmployeeDto) CSVHeader() []string {
	return []string{"id", "name", "age", "position"}
}

// CSVRecord implements the CSV formatter contract.
func (e EmployeeDto) CSVRecord() []string {
	return []string{e.ID.String(), e.Name, strconv.Itoa(e.Age), e.Position}
}

// EmployeeForCreationDto is the payload of POST /api/companies/{id}/employees.
type EmployeeForCreationDto struct {
	Name     string `json:"name" xml:"Name" validate:"required,max=30"`
	Age      int    `json:"age" xml:"Age" validate:"required,gte=18"`
	Position string `json:"position" xml:"Position" validate:"required,max=20"`
}

// EmployeeForUpdateDto is the payload of PUT and the projection patched by PATCH.
type EmployeeForUpdateDto struct {
	Name     string `json:"name" xml:"Name" validate:"required,max=30"`
	Age      int    `json:"age" xml:"Age" validate:"required,gte=18"`
	Position string `json:"position" xml:"Position" validate:"required,max=20"`
}
