// Package optional models values that an upstream payload may or may not carry.
//
// A Value distinguishes "not present" from the zero value of T, so a 0-0 score
// and "no score yet" never collapse into the same thing.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds either a T or nothing.
type Value[T any] struct {
	v  T
	ok bool
}

// Some wraps v as a present value.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr returns None for nil and Some(*p) otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSet reports whether a value is present.
func (o Value[T]) IsSet() bool {
	return o.ok
}

// OrElse returns the value if present, otherwise def.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Map applies fn to a present value.
func Map[T, U any](o Value[T], fn func(T) U) Value[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(fn(o.v))
}

// UnmarshalJSON treats JSON null as absent. A field missing from the payload
// never reaches this method and stays absent as well.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalJSON writes null for an absent value.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
