package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gartstein/companyemployees/internal/company/patch"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sam = models.EmployeeDto{
	ID:       uuid.MustParse("80abbca8-664d-4b20-b5de-024705497d4a"),
	Name:     "Sam Raiden",
	Age:      26,
	Position: "Software developer",
}

func employeesPath(companyID uuid.UUID) string {
	return "/api/companies/" + companyID.String() + "/employees"
}

func TestGetEmployeesForCompany(t *testing.T) {
	ta := newTestAPI(t)
	var got shaping.EmployeeParameters
	ta.employees.getEmployeesFunc = func(_ context.Context, companyID uuid.UUID, p shaping.EmployeeParameters) ([]shaping.ShapedEntity, shaping.MetaData, error) {
		if companyID != acme.ID {
			return nil, shaping.MetaData{}, e.CompanyNotFound(companyID)
		}
		got = p
		return employeeShaper.ShapeData([]models.EmployeeDto{sam}, p.Fields), shaping.NewMetaData(1, p.PageNumber, p.PageSize), nil
	}

	t.Run("filtered and shaped", func(t *testing.T) {
		rec := ta.do(http.MethodGet, employeesPath(acme.ID)+"?minAge=20&maxAge=30&searchTerm=sam&fields=age", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 20, got.MinAge)
		assert.EqualValues(t, 30, got.MaxAge)
		assert.Equal(t, "sam", got.SearchTerm)
		assert.JSONEq(t, `[{"id":"80abbca8-664d-4b20-b5de-024705497d4a","age":26}]`, rec.Body.String())
		assert.JSONEq(t,
			`{"currentPage":1,"totalPages":1,"pageSize":10,"totalCount":1,"hasPrevious":false,"hasNext":false}`,
			rec.Header().Get("X-Pagination"))
	})

	t.Run("hateoas", func(t *testing.T) {
		rec := ta.do(http.MethodGet, employeesPath(acme.ID), "", http.Header{"Accept": {links.MediaTypeHateoasJSON}})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Value []struct {
				Links []links.Link `json:"links"`
			} `json:"value"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Value, 1)
		rels := make([]string, 0, 5)
		for _, l := range body.Value[0].Links {
			rels = append(rels, l.Rel)
		}
		assert.Equal(t, []string{"self", "delete_employee", "update_employee", "partially_update_employee", "company"}, rels)
		assert.Equal(t, "http://example.com"+employeesPath(acme.ID)+"/"+sam.ID.String(), body.Value[0].Links[0].Href)
	})

	t.Run("hateoas xml", func(t *testing.T) {
		rec := ta.do(http.MethodGet, employeesPath(acme.ID), "", http.Header{"Accept": {links.MediaTypeHateoasXML}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<response><value><entity><id>80abbca8-664d-4b20-b5de-024705497d4a</id>")
		assert.Contains(t, rec.Body.String(), "<rel>partially_update_employee</rel>")
	})

	t.Run("xml", func(t *testing.T) {
		rec := ta.do(http.MethodGet, employeesPath(acme.ID)+"?fields=name", "", http.Header{"Accept": {"text/xml"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<ArrayOfEmployee><Employee><id>80abbca8-664d-4b20-b5de-024705497d4a</id><name>Sam Raiden</name></Employee></ArrayOfEmployee>",
			rec.Body.String())
	})

	t.Run("unknown company", func(t *testing.T) {
		rec := ta.do(http.MethodGet, employeesPath(uuid.New()), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid company id", func(t *testing.T) {
		rec := ta.do(http.MethodGet, "/api/companies/42/employees", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"statusCode":400,"message":"Invalid company id."}`, rec.Body.String())
	})

	t.Run("bad query", func(t *testing.T) {
		rec := ta.do(http.MethodGet, employeesPath(acme.ID)+"?minAge=abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetEmployeeForCompany(t *testing.T) {
	ta := newTestAPI(t)
	ta.employees.getEmployeeFunc = func(_ context.Context, companyID, id uuid.UUID) (*models.EmployeeDto, error) {
		if id != sam.ID {
			return nil, e.EmployeeNotFound(id)
		}
		emp := sam
		return &emp, nil
	}

	rec := ta.do(http.MethodGet, employeesPath(acme.ID)+"/"+sam.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"80abbca8-664d-4b20-b5de-024705497d4a","name":"Sam Raiden","age":26,"position":"Software developer"}`,
		rec.Body.String())

	rec = ta.do(http.MethodGet, employeesPath(acme.ID)+"/"+sam.ID.String(), "", http.Header{"Accept": {"text/csv"}})
	assert.Equal(t, "id,name,age,position\n80abbca8-664d-4b20-b5de-024705497d4a,Sam Raiden,26,Software developer\n", rec.Body.String())

	rec = ta.do(http.MethodGet, employeesPath(acme.ID)+"/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ta.do(http.MethodGet, employeesPath(acme.ID)+"/x", "", nil)
	assert.JSONEq(t, `{"statusCode":400,"message":"Invalid employee id."}`, rec.Body.String())
}

func TestCreateEmployeeForCompany(t *testing.T) {
	ta := newTestAPI(t)
	ta.employees.createFunc = func(_ context.Context, companyID uuid.UUID, dto *models.EmployeeForCreationDto) (*models.EmployeeDto, error) {
		if dto.Age < 18 {
			verr := e.NewValidationError()
			verr.Add("age", "Age is required and it can't be lower than 18")
			return nil, verr
		}
		return &models.EmployeeDto{ID: sam.ID, Name: dto.Name, Age: dto.Age, Position: dto.Position}, nil
	}

	rec := ta.do(http.MethodPost, employeesPath(acme.ID), `{"name":"Sam Raiden","age":26,"position":"Software developer"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "http://example.com"+employeesPath(acme.ID)+"/"+sam.ID.String(), rec.Header().Get("Location"))

	rec = ta.do(http.MethodPost, employeesPath(acme.ID), `{"name":"Kid","age":12,"position":"Intern"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ta.do(http.MethodPost, employeesPath(acme.ID), "", nil)
	assert.JSONEq(t, `{"statusCode":400,"message":"EmployeeForCreationDto object is null"}`, rec.Body.String())
}

func TestUpdateAndDeleteEmployee(t *testing.T) {
	ta := newTestAPI(t)
	var updated *models.EmployeeForUpdateDto
	ta.employees.updateFunc = func(_ context.Context, _, _ uuid.UUID, dto *models.EmployeeForUpdateDto) error {
		updated = dto
		return nil
	}
	ta.employees.deleteFunc = func(_ context.Context, _, id uuid.UUID) error {
		if id != sam.ID {
			return e.EmployeeNotFound(id)
		}
		return nil
	}
	path := employeesPath(acme.ID) + "/" + sam.ID.String()

	rec := ta.do(http.MethodPut, path, `{"name":"Sam","age":27,"position":"Lead"}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, updated)
	assert.Equal(t, 27, updated.Age)

	rec = ta.do(http.MethodPut, path, "null", nil)
	assert.JSONEq(t, `{"statusCode":400,"message":"EmployeeForUpdateDto object is null"}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, ta.do(http.MethodDelete, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodDelete, employeesPath(acme.ID)+"/"+uuid.NewString(), "", nil).Code)
}

func TestPartiallyUpdateEmployeeForCompany(t *testing.T) {
	ta := newTestAPI(t)
	var got patch.Document
	ta.employees.patchFunc = func(_ context.Context, _, _ uuid.UUID, doc patch.Document) (*models.EmployeeDto, error) {
		got = doc
		for _, op := range doc {
			if op.Path == "/age" && string(op.Value) == "5" {
				verr := e.NewValidationError()
				verr.Add("age", "Age is required and it can't be lower than 18")
				return nil, verr
			}
		}
		emp := sam
		return &emp, nil
	}
	path := employeesPath(acme.ID) + "/" + sam.ID.String()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"applied", `[{"op":"replace","path":"/age","value":28}]`, http.StatusNoContent, ""},
		{"invalid result", `[{"op":"replace","path":"/age","value":5}]`, http.StatusUnprocessableEntity, ""},
		{"null", "null", http.StatusBadRequest, `{"statusCode":400,"message":"patchDoc object sent from client is null."}`},
		{"not a document", `{"op":"replace"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.do(http.MethodPatch, path, tt.body, http.Header{"Content-Type": {"application/json-patch+json"}})
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	require.NotEmpty(t, got)
	assert.Equal(t, "replace", got[0].Op)
}
