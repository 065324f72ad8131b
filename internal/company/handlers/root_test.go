package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRoot(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(http.MethodGet, "/api", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ta.do(http.MethodGet, "/api", "", http.Header{"Accept": {links.MediaTypeAPIRoot}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body []links.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []links.Link{
		{Href: "http://example.com/api", Rel: "self", Method: http.MethodGet},
		{Href: "http://example.com/api/companies", Rel: "companies", Method: http.MethodGet},
		{Href: "http://example.com/api/companies", Rel: "create_company", Method: http.MethodPost},
	}, body)

	rec = ta.do(http.MethodGet, "/api", "", http.Header{
		"Accept":            {links.MediaTypeAPIRootXML},
		"X-Forwarded-Proto": {"https"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<link><href>https://example.com/api/companies</href><rel>companies</rel>")
}
