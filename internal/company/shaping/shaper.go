// Package shaping projects DTOs to partial representations and computes
// pagination metadata. Nothing here depends on the ORM.
package shaping

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// IDField is the field every shaped entity carries.
const IDField = "id"

type property struct {
	name  string
	index int
}

// DataShaper projects values of T to entities holding only requested fields.
// Field names are the JSON names of T, matched case-insensitively.
type DataShaper[T any] struct {
	props   []property
	byLower map[string]property
	idIndex int
}

// NewDataShaper inspects T once. T must be a struct type.
func NewDataShaper[T any]() *DataShaper[T] {
	var zero T
	t := reflect.TypeOf(zero)

	s := &DataShaper[T]{
		byLower: make(map[string]property),
		idIndex: -1,
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		p := property{name: name, index: i}
		s.props = append(s.props, p)
		s.byLower[strings.ToLower(name)] = p
		if name == IDField && f.Type == reflect.TypeOf(uuid.UUID{}) {
			s.idIndex = i
		}
	}
	return s
}

// ShapeData shapes every item with the same field list.
func (s *DataShaper[T]) ShapeData(items []T, fields string) []ShapedEntity {
	props := s.requested(fields)
	out := make([]ShapedEntity, 0, len(items))
	for _, item := range items {
		out = append(out, s.shape(item, props))
	}
	return out
}

// ShapeItem shapes a single item.
func (s *DataShaper[T]) ShapeItem(item T, fields string) ShapedEntity {
	return s.shape(item, s.requested(fields))
}

// requested resolves a comma-separated field list. An empty list selects
// every property; unknown names are ignored; the id always comes first.
func (s *DataShaper[T]) requested(fields string) []property {
	if strings.TrimSpace(fields) == "" {
		return s.props
	}

	var out []property
	seen := make(map[int]bool)
	if s.idIndex >= 0 {
		out = append(out, s.byLower[IDField])
		seen[s.idIndex] = true
	}
	for _, name := range strings.Split(fields, ",") {
		p, ok := s.byLower[strings.ToLower(strings.TrimSpace(name))]
		if !ok || seen[p.index] {
			continue
		}
		seen[p.index] = true
		out = append(out, p)
	}
	return out
}

func (s *DataShaper[T]) shape(item T, props []property) ShapedEntity {
	v := reflect.ValueOf(item)

	var shaped ShapedEntity
	if s.idIndex >= 0 {
		shaped.ID = v.Field(s.idIndex).Interface().(uuid.UUID)
	}
	for _, p := range props {
		shaped.Entity.Set(p.name, v.Field(p.index).Interface())
	}
	return shaped
}
