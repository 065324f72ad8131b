package handlers

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gartstein/companyemployees/internal/company/links"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

const (
	mediaTypeKey = "mediaType"

	mimeCSV = "text/csv"
)

// offers lists the media types the API produces, preferred first.
var offers = []string{
	gin.MIMEJSON,
	gin.MIMEXML,
	gin.MIMEXML2,
	mimeCSV,
	links.MediaTypeHateoasJSON,
	links.MediaTypeHateoasXML,
	links.MediaTypeAPIRoot,
	links.MediaTypeAPIRootXML,
}

// Negotiate picks the response media type from Accept and answers 406 when
// none of the offers matches.
func Negotiate() gin.HandlerFunc {
	return func(c *gin.Context) {
		mt := c.NegotiateFormat(offers...)
		if mt == "" {
			c.Set(mediaTypeKey, gin.MIMEJSON)
			c.JSON(http.StatusNotAcceptable, ErrorDetails{
				StatusCode: http.StatusNotAcceptable,
				Message:    "The requested media type is not supported.",
			})
			c.Abort()
			return
		}
		c.Set(mediaTypeKey, mt)
		c.Next()
	}
}

func mediaType(c *gin.Context) string {
	if mt := c.GetString(mediaTypeKey); mt != "" {
		return mt
	}
	return gin.MIMEJSON
}

func isXML(mt string) bool {
	return strings.HasSuffix(mt, "xml")
}

type csvRecorder interface {
	CSVHeader() []string
	CSVRecord() []string
}

// list is a collection response. It marshals to a JSON array and to an XML
// document rooted at root with one item element per entry.
type list struct {
	root  string
	item  string
	items []any
}

func listOf[T any](root, item string, items []T) list {
	l := list{root: root, item: item, items: make([]any, len(items))}
	for i, it := range items {
		l.items[i] = it
	}
	return l
}

func (l list) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.items)
}

func (l list) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: l.root}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, it := range l.items {
		if err := enc.EncodeElement(it, xml.StartElement{Name: xml.Name{Local: l.item}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (l list) csvRows() ([][]string, bool) {
	rows := make([][]string, 0, len(l.items)+1)
	for i, it := range l.items {
		rec, ok := it.(csvRecorder)
		if !ok {
			return nil, false
		}
		if i == 0 {
			rows = append(rows, rec.CSVHeader())
		}
		rows = append(rows, rec.CSVRecord())
	}
	return rows, true
}

func csvRows(v any) ([][]string, bool) {
	switch v := v.(type) {
	case list:
		return v.csvRows()
	case csvRecorder:
		return [][]string{v.CSVHeader(), v.CSVRecord()}, true
	}
	return nil, false
}

// respond writes v in the negotiated media type. Values that cannot be
// written as CSV fall back to JSON.
func (h *base) respond(c *gin.Context, status int, v any) {
	mt := mediaType(c)
	switch {
	case isXML(mt):
		c.Header("Content-Type", mt+"; charset=utf-8")
		c.Render(status, render.XML{Data: v})
	case mt == mimeCSV:
		rows, ok := csvRows(v)
		if !ok {
			c.JSON(status, v)
			return
		}
		c.Header("Content-Type", mimeCSV+"; charset=utf-8")
		c.Status(status)
		w := csv.NewWriter(c.Writer)
		if err := w.WriteAll(rows); err != nil {
			_ = c.Error(err)
		}
	default:
		c.Header("Content-Type", mt+"; charset=utf-8")
		c.Render(status, render.JSON{Data: v})
	}
}
