package handlers

import (
	"errors"
	"net/http"

	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/patch"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var employeeShaper = shaping.NewDataShaper[models.EmployeeDto]()

// EmployeeHandler serves /api/companies/{companyId}/employees.
type EmployeeHandler struct {
	base
	service EmployeeController
}

func (h *EmployeeHandler) ids(c *gin.Context, withEmployee bool) (companyID, id uuid.UUID, ok bool) {
	companyID, ok = parseID(c, "companyId")
	if !ok {
		h.badRequest(c, "Invalid company id.")
		return uuid.Nil, uuid.Nil, false
	}
	if !withEmployee {
		return companyID, uuid.Nil, true
	}
	id, ok = parseID(c, "id")
	if !ok {
		h.badRequest(c, "Invalid employee id.")
		return uuid.Nil, uuid.Nil, false
	}
	return companyID, id, true
}

// GetEmployeesForCompany pages, filters and shapes a company's employees.
//
//	@Summary		List employees of a company
//	@Tags			Employees
//	@Produce		json,xml,text/csv
//	@Param			companyId	path		string	true	"Company id"
//	@Param			minAge		query		int		false	"Minimum age"
//	@Param			maxAge		query		int		false	"Maximum age"
//	@Param			searchTerm	query		string	false	"Name search"
//	@Param			orderBy		query		string	false	"Ordering, e.g. age desc"
//	@Param			fields		query		string	false	"Comma separated fields"
//	@Success		200			{array}		models.EmployeeDto
//	@Failure		400			{object}	ErrorDetails
//	@Failure		404			{object}	ErrorDetails
//	@Router			/api/companies/{companyId}/employees [get]
func (h *EmployeeHandler) GetEmployeesForCompany(c *gin.Context) {
	companyID, _, ok := h.ids(c, false)
	if !ok {
		return
	}

	params := shaping.NewEmployeeParameters()
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	shaped, meta, err := h.service.GetEmployees(c.Request.Context(), companyID, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setPagination(c, meta)

	if links.IsHateoas(mediaType(c)) {
		base := links.BaseURL(c.Request)
		self := links.Link{Href: base + c.Request.URL.RequestURI(), Rel: "self", Method: http.MethodGet}
		h.respond(c, http.StatusOK, links.Wrap(shaped, func(id uuid.UUID) links.List {
			return h.links.EmployeeLinks(base, companyID, id, params.Fields)
		}, self))
		return
	}
	h.respond(c, http.StatusOK, listOf("ArrayOfEmployee", "Employee", entities(shaped)))
}

func (h *EmployeeHandler) GetEmployeeForCompany(c *gin.Context) {
	companyID, id, ok := h.ids(c, true)
	if !ok {
		return
	}

	employee, err := h.service.GetEmployee(c.Request.Context(), companyID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	if links.IsHateoas(mediaType(c)) {
		fields := c.Query("fields")
		shaped := employeeShaper.ShapeItem(*employee, fields)
		h.respond(c, http.StatusOK, links.Attach(shaped, h.links.EmployeeLinks(links.BaseURL(c.Request), companyID, id, fields)))
		return
	}
	h.respond(c, http.StatusOK, employee)
}

//	@Summary		Create an employee
//	@Tags			Employees
//	@Accept			json,xml
//	@Produce		json,xml
//	@Param			companyId	path		string							true	"Company id"
//	@Param			employee	body		models.EmployeeForCreationDto	true	"Employee"
//	@Success		201			{object}	models.EmployeeDto
//	@Failure		400			{object}	ErrorDetails
//	@Failure		404			{object}	ErrorDetails
//	@Failure		422			{object}	ErrorDetails
//	@Router			/api/companies/{companyId}/employees [post]
func (h *EmployeeHandler) CreateEmployeeForCompany(c *gin.Context) {
	companyID, _, ok := h.ids(c, false)
	if !ok {
		return
	}
	dto, err := bindBody[models.EmployeeForCreationDto](c)
	if err != nil {
		h.bodyError(c, "EmployeeForCreationDto", err)
		return
	}

	created, err := h.service.CreateEmployeeForCompany(c.Request.Context(), companyID, dto)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", h.links.URL(links.BaseURL(c.Request), links.GetEmployeeForCompany,
		map[string]string{"companyId": companyID.String(), "id": created.ID.String()}, ""))
	h.respond(c, http.StatusCreated, created)
}

func (h *EmployeeHandler) UpdateEmployeeForCompany(c *gin.Context) {
	companyID, id, ok := h.ids(c, true)
	if !ok {
		return
	}
	dto, err := bindBody[models.EmployeeForUpdateDto](c)
	if err != nil {
		h.bodyError(c, "EmployeeForUpdateDto", err)
		return
	}

	if err := h.service.UpdateEmployeeForCompany(c.Request.Context(), companyID, id, dto); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PartiallyUpdateEmployeeForCompany applies a JSON patch document, e.g.
// [{"op":"replace","path":"/age","value":28}].
//
//	@Summary		Patch an employee
//	@Tags			Employees
//	@Accept			json
//	@Param			companyId	path	string			true	"Company id"
//	@Param			id			path	string			true	"Employee id"
//	@Param			patch		body	[]patch.Operation	true	"JSON patch document"
//	@Success		204
//	@Failure		400	{object}	ErrorDetails
//	@Failure		404	{object}	ErrorDetails
//	@Failure		422	{object}	ErrorDetails
//	@Router			/api/companies/{companyId}/employees/{id} [patch]
func (h *EmployeeHandler) PartiallyUpdateEmployeeForCompany(c *gin.Context) {
	companyID, id, ok := h.ids(c, true)
	if !ok {
		return
	}
	doc, err := bindBody[patch.Document](c)
	if err != nil {
		if errors.Is(err, errNullBody) {
			h.badRequest(c, "patchDoc object sent from client is null.")
			return
		}
		h.badRequest(c, err.Error())
		return
	}

	if _, err := h.service.PatchEmployeeForCompany(c.Request.Context(), companyID, id, *doc); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) DeleteEmployeeForCompany(c *gin.Context) {
	companyID, id, ok := h.ids(c, true)
	if !ok {
		return
	}

	if err := h.service.DeleteEmployeeForCompany(c.Request.Context(), companyID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
