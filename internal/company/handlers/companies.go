package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var companyShaper = shaping.NewDataShaper[models.CompanyDto]()

// CompanyHandler serves /api/companies.
type CompanyHandler struct {
	base
	service CompanyController
}

// GetCompanies lists companies. Version 1.0 pages, filters and shapes;
// version 2.0 returns every company.
//
//	@Summary		List companies
//	@Tags			Companies
//	@Produce		json,xml,text/csv
//	@Param			pageNumber	query		int		false	"Page number"
//	@Param			pageSize	query		int		false	"Page size (max 50)"
//	@Param			searchTerm	query		string	false	"Name search"
//	@Param			orderBy		query		string	false	"Ordering, e.g. name desc"
//	@Param			fields		query		string	false	"Comma separated fields"
//	@Param			api-version	header		string	false	"1.0 or 2.0"
//	@Success		200			{array}		models.CompanyDto
//	@Failure		401			{object}	ErrorDetails
//	@Failure		403			{object}	ErrorDetails
//	@Failure		429			{string}	string
//	@Security		BearerAuth
//	@Router			/api/companies [get]
func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	if apiVersion(c) == Version2 {
		h.getCompaniesV2(c)
		return
	}

	params := shaping.NewCompanyParameters()
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	shaped, meta, err := h.service.GetAllCompanies(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setPagination(c, meta)

	if links.IsHateoas(mediaType(c)) {
		base := links.BaseURL(c.Request)
		self := links.Link{Href: base + c.Request.URL.RequestURI(), Rel: "self", Method: http.MethodGet}
		h.respond(c, http.StatusOK, links.Wrap(shaped, func(id uuid.UUID) links.List {
			return h.links.CompanyLinks(base, id, params.Fields)
		}, self))
		return
	}
	h.respond(c, http.StatusOK, listOf("ArrayOfCompany", "Company", entities(shaped)))
}

func (h *CompanyHandler) getCompaniesV2(c *gin.Context) {
	companies, err := h.service.GetCompanies(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	for i := range companies {
		companies[i].Name += " V2"
	}
	h.respond(c, http.StatusOK, listOf("ArrayOfCompanyDto", "CompanyDto", companies))
}

// GetCompany returns one company with an ETag of its representation.
//
//	@Summary		Get a company
//	@Tags			Companies
//	@Produce		json,xml,text/csv
//	@Param			companyId	path		string	true	"Company id"
//	@Success		200			{object}	models.CompanyDto
//	@Success		304
//	@Failure		404			{object}	ErrorDetails
//	@Router			/api/companies/{companyId} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := parseID(c, "companyId")
	if !ok {
		h.badRequest(c, "Invalid company id.")
		return
	}

	company, err := h.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	etag := entityTag(company, mediaType(c), c.Query("fields"))
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && (match == etag || match == "*") {
		c.Status(http.StatusNotModified)
		return
	}

	if links.IsHateoas(mediaType(c)) {
		fields := c.Query("fields")
		shaped := companyShaper.ShapeItem(*company, fields)
		h.respond(c, http.StatusOK, links.Attach(shaped, h.links.CompanyLinks(links.BaseURL(c.Request), id, fields)))
		return
	}
	h.respond(c, http.StatusOK, company)
}

// GetCompanyCollection returns the companies named in the comma separated
// ids segment, e.g. /api/companies/collection/(id1,id2).
func (h *CompanyHandler) GetCompanyCollection(c *gin.Context) {
	ids, err := parseIDs(c.Param("ids"))
	if err != nil {
		h.badRequest(c, "Invalid ids: "+err.Error())
		return
	}

	companies, err := h.service.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, listOf("ArrayOfCompanyDto", "CompanyDto", companies))
}

// CreateCompany creates a company and any employees nested in the payload.
//
//	@Summary		Create a company
//	@Tags			Companies
//	@Accept			json,xml
//	@Produce		json,xml
//	@Param			company	body		models.CompanyForCreationDto	true	"Company"
//	@Success		201		{object}	models.CompanyDto
//	@Failure		400		{object}	ErrorDetails
//	@Failure		422		{object}	ErrorDetails
//	@Router			/api/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	dto, err := bindBody[models.CompanyForCreationDto](c)
	if err != nil {
		h.bodyError(c, "CompanyForCreationDto", err)
		return
	}

	created, err := h.service.CreateCompany(c.Request.Context(), dto)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", h.links.URL(links.BaseURL(c.Request), links.CompanyByID,
		map[string]string{"companyId": created.ID.String()}, ""))
	h.respond(c, http.StatusCreated, created)
}

func (h *CompanyHandler) CreateCompanyCollection(c *gin.Context) {
	dtos, err := bindCollection[models.CompanyForCreationDto](c)
	if err != nil {
		if errors.Is(err, errNullBody) {
			h.badRequest(c, "Company collection sent from client is null.")
			return
		}
		h.badRequest(c, err.Error())
		return
	}

	created, ids, err := h.service.CreateCompanyCollection(c.Request.Context(), dtos)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", h.links.URL(links.BaseURL(c.Request), links.CompanyCollection,
		map[string]string{"ids": ids}, ""))
	h.respond(c, http.StatusCreated, listOf("ArrayOfCompanyDto", "CompanyDto", created))
}

func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := parseID(c, "companyId")
	if !ok {
		h.badRequest(c, "Invalid company id.")
		return
	}
	dto, err := bindBody[models.CompanyForUpdateDto](c)
	if err != nil {
		h.bodyError(c, "CompanyForUpdateDto", err)
		return
	}

	if err := h.service.UpdateCompany(c.Request.Context(), id, dto); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := parseID(c, "companyId")
	if !ok {
		h.badRequest(c, "Invalid company id.")
		return
	}

	if err := h.service.DeleteCompany(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) GetCompaniesOptions(c *gin.Context) {
	c.Header("Allow", strings.Join([]string{
		http.MethodGet, http.MethodOptions, http.MethodPost, http.MethodPut, http.MethodDelete,
	}, ", "))
	c.Status(http.StatusOK)
}

func (h *base) bodyError(c *gin.Context, dtoName string, err error) {
	if errors.Is(err, errNullBody) {
		h.badRequest(c, dtoName+" object is null")
		return
	}
	h.badRequest(c, err.Error())
}

// entityTag is a strong validator over the entity and the representation
// variant it is rendered as.
func entityTag(v any, mediaType, fields string) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(mediaType))
	h.Write([]byte{0})
	h.Write([]byte(fields))
	h.Write([]byte{0})
	h.Write(raw)
	return `"` + hex.EncodeToString(h.Sum(nil)[:16]) + `"`
}
