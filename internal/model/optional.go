package model

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value decoded from a JSON field that producers may omit,
// set to null, or populate. Absent and null both decode to the unset state.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// OrZero returns the value, or the zero value of T when unset.
func (o Optional[T]) OrZero() T {
	return o.value
}

// IsSet reports whether the field carried a non-null value.
func (o Optional[T]) IsSet() bool {
	return o.ok
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value, o.ok = v, true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
