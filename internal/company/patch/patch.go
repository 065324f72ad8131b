// Package patch applies JSON Patch (RFC 6902) documents to in-memory
// values through an explicit table of named fields.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	e "github.com/gartstein/companyemployees/internal/company/errors"
)

// Operation is one entry of a patch document.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Document is an ordered list of operations.
type Document []Operation

// Field describes how one path of T is read, written and removed.
type Field[T any] struct {
	Get   func(*T) any
	Set   func(*T, json.RawMessage) error
	Reset func(*T)
}

// Fields maps paths such as "/name" to their accessors. Lookups are
// case-insensitive.
type Fields[T any] map[string]Field[T]

func (f Fields[T]) lookup(path string) (Field[T], bool) {
	field, ok := f[strings.ToLower(path)]
	return field, ok
}

// Apply runs every operation of doc against target in order. On the first
// failing operation it stops and returns a validation error naming it;
// target may then be partially modified, so callers apply to a copy.
func Apply[T any](doc Document, target *T, fields Fields[T]) error {
	for i, op := range doc {
		if err := apply(op, target, fields); err != nil {
			verr := e.NewValidationError()
			verr.Add(fmt.Sprintf("operations[%d]", i), err.Error())
			return verr
		}
	}
	return nil
}

func apply[T any](op Operation, target *T, fields Fields[T]) error {
	field, ok := fields.lookup(op.Path)
	if !ok {
		return fmt.Errorf("target location %q was not found", op.Path)
	}

	switch strings.ToLower(op.Op) {
	case "add", "replace":
		if len(op.Value) == 0 {
			return fmt.Errorf("value for %q is missing", op.Path)
		}
		if err := field.Set(target, op.Value); err != nil {
			return fmt.Errorf("value %s is invalid for target location %q", op.Value, op.Path)
		}
	case "remove":
		field.Reset(target)
	case "copy", "move":
		src, ok := fields.lookup(op.From)
		if !ok {
			return fmt.Errorf("target location %q was not found", op.From)
		}
		raw, err := json.Marshal(src.Get(target))
		if err != nil {
			return err
		}
		if err := field.Set(target, raw); err != nil {
			return fmt.Errorf("value from %q is invalid for target location %q", op.From, op.Path)
		}
		if strings.EqualFold(op.Op, "move") && !strings.EqualFold(op.From, op.Path) {
			src.Reset(target)
		}
	case "test":
		current, err := json.Marshal(field.Get(target))
		if err != nil {
			return err
		}
		if !jsonEqual(current, op.Value) {
			return fmt.Errorf("current value %s at %q is not equal to the test value %s", current, op.Path, op.Value)
		}
	default:
		return fmt.Errorf("invalid patch operation %q", op.Op)
	}
	return nil
}

func jsonEqual(a, b json.RawMessage) bool {
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return bytes.Equal(a, b)
	}
	ab, _ := json.Marshal(av)
	bb, _ := json.Marshal(bv)
	return bytes.Equal(ab, bb)
}

// String returns a Field for a string member.
func String[T any](get func(*T) *string) Field[T] {
	return Field[T]{
		Get: func(t *T) any { return *get(t) },
		Set: func(t *T, raw json.RawMessage) error {
			return json.Unmarshal(raw, get(t))
		},
		Reset: func(t *T) { *get(t) = "" },
	}
}

// Int returns a Field for an int member.
func Int[T any](get func(*T) *int) Field[T] {
	return Field[T]{
		Get: func(t *T) any { return *get(t) },
		Set: func(t *T, raw json.RawMessage) error {
			return json.Unmarshal(raw, get(t))
		},
		Reset: func(t *T) { *get(t) = 0 },
	}
}
