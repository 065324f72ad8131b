package outputcache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TagCompanies groups every cached representation of company data.
const TagCompanies = "companies"

// Policy names how long a response lives and which tags it is filed under.
// Query lists the parameters that select a representation; others are left
// out of the key. A nil Query keys on every parameter.
type Policy struct {
	Name     string
	Duration time.Duration
	Tags     []string
	Query    []string
}

var (
	// Companies120 is the policy applied to company reads.
	Companies120 = Policy{
		Name:     "120SecondsDuration",
		Duration: 120 * time.Second,
		Tags:     []string{TagCompanies},
		Query:    []string{"pageNumber", "pageSize", "orderBy", "fields", "searchTerm"},
	}
	Company60 = Policy{
		Name:     "60SecondsDuration",
		Duration: 60 * time.Second,
		Tags:     []string{TagCompanies},
		Query:    []string{"fields"},
	}
)

// Request headers that select a different representation.
var varyHeaders = []string{"Accept", "api-version"}

// Response headers never replayed from the cache.
var skipHeaders = map[string]struct{}{
	"Date":       {},
	"Set-Cookie": {},
	"Age":        {},
}

type Cache struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func New(store Store, logger *zap.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: logger.Named("output_cache"),
		now:    time.Now,
	}
}

// Handler serves GET and HEAD requests from the cache and stores successful
// responses under the policy. Authenticated requests are never cached.
func (oc *Cache) Handler(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			c.Next()
			return
		}
		if req.Header.Get("Authorization") != "" {
			c.Next()
			return
		}

		key := cacheKey(policy, req)
		ctx := req.Context()

		if !bypassLookup(req) {
			entry, err := oc.store.Get(ctx, key)
			switch {
			case err == nil:
				oc.replay(c, entry)
				return
			case !errors.Is(err, ErrMiss):
				oc.logger.Warn("Failed to read output cache", zap.String("key", key), zap.Error(err))
			}
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()
		c.Writer = w.ResponseWriter

		if w.Status() != http.StatusOK || len(c.Errors) > 0 {
			return
		}
		entry := &Entry{
			Status:   w.Status(),
			Header:   storedHeader(w.Header()),
			Body:     w.body.Bytes(),
			StoredAt: oc.now(),
		}
		if err := oc.store.Set(ctx, key, entry, policy.Duration, policy.Tags); err != nil {
			oc.logger.Warn("Failed to write output cache", zap.String("key", key), zap.Error(err))
		}
	}
}

// EvictOnWrite drops the tag after a successful unsafe request.
func (oc *Cache) EvictOnWrite(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		// The request context may already be cancelled.
		if err := oc.Evict(context.WithoutCancel(c.Request.Context()), tag); err != nil {
			oc.logger.Warn("Failed to evict output cache", zap.String("tag", tag), zap.Error(err))
		}
	}
}

func (oc *Cache) Evict(ctx context.Context, tag string) error {
	if err := oc.store.EvictTag(ctx, tag); err != nil {
		return err
	}
	oc.logger.Debug("Output cache tag evicted", zap.String("tag", tag))
	return nil
}

func (oc *Cache) replay(c *gin.Context, entry *Entry) {
	h := c.Writer.Header()
	for name, values := range entry.Header {
		h[name] = append([]string(nil), values...)
	}
	age := int(oc.now().Sub(entry.StoredAt).Seconds())
	h.Set("Age", strconv.Itoa(max(age, 0)))
	if notModified(c.Request, entry.Header.Get("ETag")) {
		c.Status(http.StatusNotModified)
		c.Writer.WriteHeaderNow()
		c.Abort()
		return
	}
	c.Status(entry.Status)
	if c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(entry.Body)
	}
	c.Abort()
}

func notModified(req *http.Request, etag string) bool {
	match := req.Header.Get("If-None-Match")
	if etag == "" || match == "" {
		return false
	}
	return match == "*" || match == etag
}

func bypassLookup(req *http.Request) bool {
	cc := strings.ToLower(req.Header.Get("Cache-Control"))
	return strings.Contains(cc, "no-cache") || strings.Contains(cc, "no-store")
}

// cacheKey varies by policy, path, the policy's sorted query parameters and
// the representation selecting headers.
func cacheKey(policy Policy, req *http.Request) string {
	q := req.URL.Query()
	if policy.Query != nil {
		known := make(url.Values, len(policy.Query))
		for _, name := range policy.Query {
			if values, ok := q[name]; ok {
				known[name] = values
			}
		}
		q = known
	}

	var b strings.Builder
	b.WriteString(policy.Name)
	b.WriteByte('|')
	b.WriteString(strings.ToLower(req.URL.Path))
	b.WriteByte('?')
	b.WriteString(sortedQuery(q))
	for _, name := range varyHeaders {
		b.WriteByte('|')
		b.WriteString(strings.ToLower(name))
		b.WriteByte('=')
		b.WriteString(req.Header.Get(name))
	}
	return b.String()
}

func sortedQuery(q url.Values) string {
	names := make([]string, 0, len(q))
	for name := range q {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		values := append([]string(nil), q[name]...)
		sort.Strings(values)
		for _, v := range values {
			parts = append(parts, url.QueryEscape(name)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func storedHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		if _, skip := skipHeaders[name]; skip {
			continue
		}
		out[name] = append([]string(nil), values...)
	}
	return out
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
