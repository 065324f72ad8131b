package shaping

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestParameters_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         RequestParameters
		wantNumber int
		wantSize   int
	}{
		{"defaults", RequestParameters{}, 1, 10},
		{"negative page", RequestParameters{PageNumber: -3, PageSize: 5}, 1, 5},
		{"clamped size", RequestParameters{PageNumber: 2, PageSize: 500}, 2, MaxPageSize},
		{"clamped page", RequestParameters{PageNumber: math.MaxInt, PageSize: 50}, MaxPageNumber, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.wantNumber, p.PageNumber)
			assert.Equal(t, tt.wantSize, p.PageSize)
		})
	}
}

func TestNewEmployeeParameters(t *testing.T) {
	p := NewEmployeeParameters()
	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, "name", p.OrderBy)
	assert.EqualValues(t, 0, p.MinAge)
	assert.EqualValues(t, math.MaxInt32, p.MaxAge)
	assert.True(t, p.ValidAgeRange())

	p.MinAge, p.MaxAge = 40, 30
	assert.False(t, p.ValidAgeRange())
}

func TestNewMetaData(t *testing.T) {
	m := NewMetaData(23, 2, 10)
	assert.Equal(t, MetaData{CurrentPage: 2, TotalPages: 3, PageSize: 10, TotalCount: 23, HasPrevious: true, HasNext: true}, m)
	assert.Equal(t, "page 2/3 (size 10, total 23)", m.String())

	m = NewMetaData(0, 1, 10)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrevious)
}

func TestToPagedList(t *testing.T) {
	source := []int{1, 2, 3, 4, 5, 6, 7}

	page := ToPagedList(source, 2, 3)
	assert.Equal(t, []int{4, 5, 6}, page.Items)
	assert.Equal(t, 3, page.MetaData.TotalPages)

	page = ToPagedList(source, 5, 3)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 7, page.MetaData.TotalCount)
}

func TestToPagedList_HugePageNumber(t *testing.T) {
	source := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		page := ToPagedList(source, math.MaxInt, 50)
		assert.Empty(t, page.Items)
		assert.Equal(t, MaxPageNumber, page.MetaData.CurrentPage)
	})

	p := RequestParameters{PageNumber: math.MaxInt, PageSize: math.MaxInt}
	p.Normalize()
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
}
