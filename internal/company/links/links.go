// Package links builds the hypermedia links attached to company and employee
// representations when a client asks for a hateoas media type.
package links

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"

	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/google/uuid"
)

const (
	MediaTypeHateoasJSON = "application/vnd.codemaze.hateoas+json"
	MediaTypeHateoasXML  = "application/vnd.codemaze.hateoas+xml"
	MediaTypeAPIRoot     = "application/vnd.codemaze.apiroot+json"
	MediaTypeAPIRootXML  = "application/vnd.codemaze.apiroot+xml"
)

// IsHateoas reports whether the negotiated media type asks for links.
func IsHateoas(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "hateoas")
}

// IsAPIRoot reports whether the media type asks for the root document.
func IsAPIRoot(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "apiroot")
}

type Link struct {
	Href   string `json:"href" xml:"href"`
	Rel    string `json:"rel" xml:"rel"`
	Method string `json:"method" xml:"method"`
}

// List marshals to XML as <links><link/>...</links>.
type List []Link

func (l List) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, link := range l {
		if err := enc.EncodeElement(link, xml.StartElement{Name: xml.Name{Local: "link"}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Collection is the hypermedia wrapper for a list of entities.
type Collection struct {
	XMLName xml.Name         `json:"-" xml:"response"`
	Value   []shaping.Entity `json:"value" xml:"value>entity"`
	Links   List             `json:"links" xml:"links"`
}

// BaseURL derives scheme://host from the request, honouring a proxy's
// X-Forwarded-Proto.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}

// Generator resolves route names to absolute links.
type Generator struct {
	routes RouteTable
}

func NewGenerator(routes RouteTable) *Generator {
	return &Generator{routes: routes}
}


// URL returns base + the expanded route, with fields carried as a query
// parameter when set.
func (g *Generator) URL(base, route string, params map[string]string, fields string) string {
	u := base + g.routes.Path(route, params)
	if fields != "" {
		u += "?" + url.Values{"fields": {fields}}.Encode()
	}
	return u
}

func (g *Generator) CompanyLinks(base string, id uuid.UUID, fields string) List {
	params := map[string]string{"companyId": id.String()}
	return List{
		{Href: g.URL(base, CompanyByID, params, fields), Rel: "self", Method: http.MethodGet},
		{Href: g.URL(base, DeleteCompany, params, ""), Rel: "delete_company", Method: http.MethodDelete},
		{Href: g.URL(base, UpdateCompany, params, ""), Rel: "update_company", Method: http.MethodPut},
		{Href: g.URL(base, GetEmployeesForCompany, params, ""), Rel: "employees", Method: http.MethodGet},
	}
}

func (g *Generator) EmployeeLinks(base string, companyID, id uuid.UUID, fields string) List {
	params := map[string]string{"companyId": companyID.String(), "id": id.String()}
	return List{
		{Href: g.URL(base, GetEmployeeForCompany, params, fields), Rel: "self", Method: http.MethodGet},
		{Href: g.URL(base, DeleteEmployee, params, ""), Rel: "delete_employee", Method: http.MethodDelete},
		{Href: g.URL(base, UpdateEmployee, params, ""), Rel: "update_employee", Method: http.MethodPut},
		{Href: g.URL(base, PatchEmployee, params, ""), Rel: "partially_update_employee", Method: http.MethodPatch},
		{Href: g.URL(base, CompanyByID, params, ""), Rel: "company", Method: http.MethodGet},
	}
}

// Root lists the entry points of the API.
func (g *Generator) Root(base string) List {
	return List{
		{Href: g.URL(base, GetRoot, nil, ""), Rel: "self", Method: http.MethodGet},
		{Href: g.URL(base, GetCompanies, nil, ""), Rel: "companies", Method: http.MethodGet},
		{Href: g.URL(base, CreateCompany, nil, ""), Rel: "create_company", Method: http.MethodPost},
	}
}

// Wrap attaches per-entity links and a self link for the collection.
func Wrap(items []shaping.ShapedEntity, linksFor func(id uuid.UUID) List, self Link) Collection {
	value := make([]shaping.Entity, 0, len(items))
	for _, item := range items {
		value = append(value, Attach(item, linksFor(item.ID)))
	}
	return Collection{Value: value, Links: List{self}}
}

// Attach returns the entity with a "links" field appended.
func Attach(item shaping.ShapedEntity, l List) shaping.Entity {
	e := item.Entity
	e.Set("links", l)
	return e
}
