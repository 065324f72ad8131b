package handlers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gartstein/companyemployees/internal/company/shaping"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setPagination writes the page metadata as X-Pagination and as an RFC 5988
// Link header.
func (h *base) setPagination(c *gin.Context, meta shaping.MetaData) {
	h.logger.Debug("Serving page", zap.String("route", c.FullPath()), zap.Stringer("page", meta))
	if raw, err := json.Marshal(meta); err == nil {
		c.Header("X-Pagination", string(raw))
	}
	if link := pageLinks(c, meta); link != "" {
		c.Header("Link", link)
	}
}

func pageLinks(c *gin.Context, meta shaping.MetaData) string {
	if meta.TotalPages == 0 {
		return ""
	}
	base := links.BaseURL(c.Request) + c.Request.URL.Path
	query := c.Request.URL.Query()

	page := func(n int, rel string) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("pageNumber", strconv.Itoa(n))
		q.Set("pageSize", strconv.Itoa(meta.PageSize))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, q.Encode(), rel)
	}

	parts := []string{page(1, "first")}
	if meta.HasPrevious {
		parts = append(parts, page(meta.CurrentPage-1, "prev"))
	}
	if meta.HasNext {
		parts = append(parts, page(meta.CurrentPage+1, "next"))
	}
	parts = append(parts, page(meta.TotalPages, "last"))
	return strings.Join(parts, ", ")
}

func entities(items []shaping.ShapedEntity) []shaping.Entity {
	out := make([]shaping.Entity, len(items))
	for i, it := range items {
		out[i] = it.Entity
	}
	return out
}
