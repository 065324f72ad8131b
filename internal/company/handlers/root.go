package handlers

import (
	"net/http"

	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gin-gonic/gin"
)

// RootHandler serves the API entry point.
type RootHandler struct {
	base
}

// GetRoot lists the top level links when asked for the apiroot media type
// and returns 204 otherwise.
//
//	@Summary		API root
//	@Tags			Root
//	@Produce		application/vnd.codemaze.apiroot+json
//	@Success		200	{array}	links.Link
//	@Success		204
//	@Router			/api [get]
func (h *RootHandler) GetRoot(c *gin.Context) {
	if !links.IsAPIRoot(mediaType(c)) {
		c.Status(http.StatusNoContent)
		return
	}
	h.respond(c, http.StatusOK, h.links.Root(links.BaseURL(c.Request)))
}
