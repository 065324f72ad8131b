package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiVersionHeader = "api-version"
	apiVersionKey    = "apiVersion"

	Version1 = "1.0"
	Version2 = "2.0"
)

// APIVersion reads the api-version header, defaulting to 1.0, and reports
// the supported and deprecated versions on every response. Version 2.0 is
// only served by the routes listed in v2Routes as "METHOD /full/path".
func (h *base) APIVersion(v2Routes ...string) gin.HandlerFunc {
	v2 := make(map[string]struct{}, len(v2Routes))
	for _, r := range v2Routes {
		v2[r] = struct{}{}
	}

	return func(c *gin.Context) {
		c.Header("api-supported-versions", Version1)
		c.Header("api-deprecated-versions", Version2)

		raw := strings.TrimSpace(c.GetHeader(apiVersionHeader))
		version, ok := normalizeVersion(raw)
		if ok && version == Version2 {
			_, ok = v2[c.Request.Method+" "+c.FullPath()]
		}
		if !ok {
			h.badRequest(c, fmt.Sprintf("The HTTP resource that matches the request URI '%s' does not support the API version '%s'.",
				c.Request.URL.Path, raw))
			return
		}
		c.Set(apiVersionKey, version)
		c.Next()
	}
}

func normalizeVersion(raw string) (string, bool) {
	switch raw {
	case "", "1", Version1:
		return Version1, true
	case "2", Version2:
		return Version2, true
	}
	return "", false
}

func apiVersion(c *gin.Context) string {
	if v := c.GetString(apiVersionKey); v != "" {
		return v
	}
	return Version1
}
