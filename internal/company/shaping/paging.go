package shaping

import (
	"fmt"
	"math"
)

const (
	// MaxPageSize bounds every page request.
	MaxPageSize     = 50
	defaultPageSize = 10

	// MaxPageNumber keeps the row offset within an int32.
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// RequestParameters are the paging, ordering and shaping query parameters
// common to collection endpoints.
type RequestParameters struct {
	PageNumber int    `form:"pageNumber"`
	PageSize   int    `form:"pageSize"`
	OrderBy    string `form:"orderBy"`
	Fields     string `form:"fields"`
}

// Normalize clamps the page number to [1, MaxPageNumber] and the page size
// to (0, MaxPageSize], applying defaults for missing values.
func (p *RequestParameters) Normalize() {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageNumber > MaxPageNumber {
		p.PageNumber = MaxPageNumber
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset is the number of rows preceding the requested page.
func (p RequestParameters) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// CompanyParameters are the query parameters of GET /api/companies.
type CompanyParameters struct {
	RequestParameters
	SearchTerm string `form:"searchTerm"`
}

// NewCompanyParameters returns parameters with defaults applied.
func NewCompanyParameters() CompanyParameters {
	p := CompanyParameters{RequestParameters: RequestParameters{OrderBy: "name"}}
	p.Normalize()
	return p
}

// EmployeeParameters are the query parameters of GET .../employees.
type EmployeeParameters struct {
	RequestParameters
	MinAge     uint   `form:"minAge"`
	MaxAge     uint   `form:"maxAge"`
	SearchTerm string `form:"searchTerm"`
}

// NewEmployeeParameters returns parameters with defaults applied.
func NewEmployeeParameters() EmployeeParameters {
	p := EmployeeParameters{
		RequestParameters: RequestParameters{OrderBy: "name"},
		MaxAge:            math.MaxInt32,
	}
	p.Normalize()
	return p
}

// ValidAgeRange reports whether MaxAge is not below MinAge.
func (p EmployeeParameters) ValidAgeRange() bool {
	return p.MaxAge >= p.MinAge
}

// MetaData describes one page of a collection.
type MetaData struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// NewMetaData computes the metadata for page pageNumber of size pageSize
// over count items.
func NewMetaData(count int64, pageNumber, pageSize int) MetaData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(count) / float64(pageSize)))
	}
	return MetaData{
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalCount:  count,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}
}

func (m MetaData) String() string {
	return fmt.Sprintf("page %d/%d (size %d, total %d)", m.CurrentPage, m.TotalPages, m.PageSize, m.TotalCount)
}

// PagedList is one page of items with its metadata.
type PagedList[T any] struct {
	Items    []T
	MetaData MetaData
}

// NewPagedList wraps a page already cut by the data source.
func NewPagedList[T any](items []T, count int64, pageNumber, pageSize int) PagedList[T] {
	return PagedList[T]{Items: items, MetaData: NewMetaData(count, pageNumber, pageSize)}
}

// ToPagedList cuts page pageNumber of size pageSize from an in-memory source.
func ToPagedList[T any](source []T, pageNumber, pageSize int) PagedList[T] {
	p := RequestParameters{PageNumber: pageNumber, PageSize: pageSize}
	p.Normalize()

	start := min(p.Offset(), len(source))
	end := min(start+p.PageSize, len(source))
	items := make([]T, end-start)
	copy(items, source[start:end])
	return NewPagedList(items, int64(len(source)), p.PageNumber, p.PageSize)
}
