package links

import (
	"crypto/tls"
	"encoding/json"
	"encoding/xml"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	companyID  = uuid.MustParse("c9d4c053-49b6-410c-bc78-2d54a9991870")
	employeeID = uuid.MustParse("86dba8c0-d178-41e7-938c-ed49778fb52a")
)

func TestBaseURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/companies", nil)
	r.Host = "api.example.com"
	assert.Equal(t, "http://api.example.com", BaseURL(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://api.example.com", BaseURL(r))

	r.TLS = nil
	r.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	assert.Equal(t, "https://api.example.com", BaseURL(r))
}

func TestRouteTable_Path(t *testing.T) {
	rt := DefaultRoutes()
	assert.Equal(t, "/api/companies/"+companyID.String()+"/employees/"+employeeID.String(),
		rt.Path(GetEmployeeForCompany, map[string]string{"companyId": companyID.String(), "id": employeeID.String()}))
	assert.Equal(t, "/api/companies/collection/(a,b)", rt.Path(CompanyCollection, map[string]string{"ids": "a,b"}))
	assert.Equal(t, "/api", rt.Path(GetRoot, nil))
	assert.Empty(t, rt.Path("Unknown", nil))
}

func TestEmployeeLinks(t *testing.T) {
	g := NewGenerator(DefaultRoutes())
	l := g.EmployeeLinks("https://localhost:5001", companyID, employeeID, "name,age")

	require.Len(t, l, 5)
	employeeURL := "https://localhost:5001/api/companies/" + companyID.String() + "/employees/" + employeeID.String()
	assert.Equal(t, Link{Href: employeeURL + "?fields=name%2Cage", Rel: "self", Method: "GET"}, l[0])
	assert.Equal(t, Link{Href: employeeURL, Rel: "delete_employee", Method: "DELETE"}, l[1])
	assert.Equal(t, Link{Href: employeeURL, Rel: "update_employee", Method: "PUT"}, l[2])
	assert.Equal(t, Link{Href: employeeURL, Rel: "partially_update_employee", Method: "PATCH"}, l[3])
	assert.Equal(t, "https://localhost:5001/api/companies/"+companyID.String(), l[4].Href)
	assert.Equal(t, "company", l[4].Rel)
}

func TestCompanyLinksAndRoot(t *testing.T) {
	g := NewGenerator(DefaultRoutes())
	l := g.CompanyLinks("http://h", companyID, "")
	rels := make([]string, len(l))
	for i, link := range l {
		rels[i] = link.Rel
	}
	assert.Equal(t, []string{"self", "delete_company", "update_company", "employees"}, rels)
	assert.Equal(t, "http://h/api/companies/"+companyID.String()+"/employees", l[3].Href)

	root := g.Root("http://h")
	assert.Equal(t, List{
		{Href: "http://h/api", Rel: "self", Method: "GET"},
		{Href: "http://h/api/companies", Rel: "companies", Method: "GET"},
		{Href: "http://h/api/companies", Rel: "create_company", Method: "POST"},
	}, root)
}

func TestWrap(t *testing.T) {
	g := NewGenerator(DefaultRoutes())
	var e shaping.Entity
	e.Set("id", employeeID)
	e.Set("name", "Sam Raiden")

	items := []shaping.ShapedEntity{{ID: employeeID, Entity: e}}
	self := Link{Href: "http://h/api/companies/" + companyID.String() + "/employees", Rel: "self", Method: "GET"}
	c := Wrap(items, func(id uuid.UUID) List {
		return g.EmployeeLinks("http://h", companyID, id, "")
	}, self)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded struct {
		Value []map[string]any `json:"value"`
		Links []Link           `json:"links"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Value, 1)
	assert.Equal(t, "Sam Raiden", decoded.Value[0]["name"])
	assert.Len(t, decoded.Value[0]["links"], 5)
	assert.Equal(t, List{self}, List(decoded.Links))

	out, err := xml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<response><value><entity><id>")
	assert.Contains(t, string(out), "<links><link><href>http://h/api/companies/")
}

func TestMediaTypes(t *testing.T) {
	assert.True(t, IsHateoas(MediaTypeHateoasXML))
	assert.False(t, IsHateoas("application/json"))
	assert.True(t, IsAPIRoot(MediaTypeAPIRoot))
}
