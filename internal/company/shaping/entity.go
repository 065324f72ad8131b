package shaping

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/google/uuid"
)

// Field is one named value of a shaped entity.
type Field struct {
	Name  string
	Value any
}

// Entity is an ordered set of fields. It marshals to a JSON object and to
// an XML element whose children are the fields, in insertion order.
type Entity struct {
	fields []Field
}

// Set adds name or replaces its value, keeping the original position.
func (e *Entity) Set(name string, value any) {
	for i := range e.fields {
		if e.fields[i].Name == name {
			e.fields[i].Value = value
			return
		}
	}
	e.fields = append(e.fields, Field{Name: name, Value: value})
}

// Get returns the value stored under name.
func (e Entity) Get(name string) (any, bool) {
	for _, f := range e.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Fields returns the fields in order.
func (e Entity) Fields() []Field {
	return e.fields
}

// Keys returns the field names in order.
func (e Entity) Keys() []string {
	keys := make([]string, len(e.fields))
	for i, f := range e.fields {
		keys[i] = f.Name
	}
	return keys
}

func (e Entity) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e Entity) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, f := range e.fields {
		if err := enc.EncodeElement(f.Value, xml.StartElement{Name: xml.Name{Local: f.Name}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// CSVHeader implements the CSV formatter contract.
func (e Entity) CSVHeader() []string {
	return e.Keys()
}

// CSVRecord implements the CSV formatter contract.
func (e Entity) CSVRecord() []string {
	rec := make([]string, len(e.fields))
	for i, f := range e.fields {
		rec[i] = fmt.Sprint(f.Value)
	}
	return rec
}

// ShapedEntity pairs a shaped entity with the identifier of its source,
// which link building needs even when "id" was not requested.
type ShapedEntity struct {
	ID     uuid.UUID
	Entity Entity
}
