package handlers

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNullBody = errors.New("request body is null")

// bindBody decodes the request body as XML when the content type says so and
// as JSON otherwise. An empty or null body is reported as errNullBody.
func bindBody[T any](c *gin.Context) (*T, error) {
	var dst *T
	var err error
	if strings.Contains(c.ContentType(), "xml") {
		dst = new(T)
		err = xml.NewDecoder(c.Request.Body).Decode(dst)
	} else {
		err = json.NewDecoder(c.Request.Body).Decode(&dst)
	}
	switch {
	case errors.Is(err, io.EOF):
		return nil, errNullBody
	case err != nil:
		return nil, fmt.Errorf("malformed request body: %w", err)
	case dst == nil:
		return nil, errNullBody
	}
	return dst, nil
}

// bindCollection decodes a JSON or XML array body.
func bindCollection[T any](c *gin.Context) ([]T, error) {
	if strings.Contains(c.ContentType(), "xml") {
		var wrapper struct {
			Items []T `xml:",any"`
		}
		if err := xml.NewDecoder(c.Request.Body).Decode(&wrapper); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNullBody
			}
			return nil, fmt.Errorf("malformed request body: %w", err)
		}
		return wrapper.Items, nil
	}

	var items []T
	if err := json.NewDecoder(c.Request.Body).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNullBody
		}
		return nil, fmt.Errorf("malformed request body: %w", err)
	}
	if items == nil {
		return nil, errNullBody
	}
	return items, nil
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseIDs binds a comma separated list of uuids, optionally wrapped in
// parentheses. An empty list yields nil.
func parseIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "(")
	raw = strings.TrimSuffix(raw, ")")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", strings.TrimSpace(p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
