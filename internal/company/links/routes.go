package links

import (
	"strings"
)

// Route names.
const (
	GetRoot                = "GetRoot"
	GetCompanies           = "GetCompanies"
	CreateCompany          = "CreateCompany"
	CompanyByID            = "CompanyById"
	UpdateCompany          = "UpdateCompany"
	DeleteCompany          = "DeleteCompany"
	CompanyCollection      = "CompanyCollection"
	GetEmployeesForCompany = "GetEmployeesForCompany"
	CreateEmployee         = "CreateEmployeeForCompany"
	GetEmployeeForCompany  = "GetEmployeeForCompany"
	UpdateEmployee         = "UpdateEmployeeForCompany"
	PatchEmployee          = "PartiallyUpdateEmployeeForCompany"
	DeleteEmployee         = "DeleteEmployeeForCompany"
)

// RouteTable maps route names to path templates with {param} placeholders.
type RouteTable map[string]string

// DefaultRoutes is the table the HTTP layer registers.
func DefaultRoutes() RouteTable {
	return RouteTable{
		GetRoot:                "/api",
		GetCompanies:           "/api/companies",
		CreateCompany:          "/api/companies",
		CompanyByID:            "/api/companies/{companyId}",
		UpdateCompany:          "/api/companies/{companyId}",
		DeleteCompany:          "/api/companies/{companyId}",
		CompanyCollection:      "/api/companies/collection/({ids})",
		GetEmployeesForCompany: "/api/companies/{companyId}/employees",
		CreateEmployee:         "/api/companies/{companyId}/employees",
		GetEmployeeForCompany:  "/api/companies/{companyId}/employees/{id}",
		UpdateEmployee:         "/api/companies/{companyId}/employees/{id}",
		PatchEmployee:          "/api/companies/{companyId}/employees/{id}",
		DeleteEmployee:         "/api/companies/{companyId}/employees/{id}",
	}
}

// Path expands the template registered under name. Unknown names expand to
// an empty path.
func (rt RouteTable) Path(name string, params map[string]string) string {
	tmpl, ok := rt[name]
	if !ok {
		return ""
	}
	if len(params) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
