package slice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Index is an optional slice component.
//
// The zero value is absent. Absent is distinct from every integer, including 0,
// and encodes to JSON null.
type Index struct {
	value int
	set   bool
}

// At returns a present Index holding v.
func At(v int) Index { return Index{value: v, set: true} }

// Absent returns the absent Index.
func Absent() Index { return Index{} }

// Get returns the held value and whether the Index is present.
func (i Index) Get() (int, bool) { return i.value, i.set }

// IsAbsent reports whether the Index carries no value.
func (i Index) IsAbsent() bool { return !i.set }

// String renders the value, or the empty string when absent, matching how the
// component is written inside a "start:stop:step" expression.
func (i Index) String() string {
	if !i.set {
		return ""
	}
	return strconv.Itoa(i.value)
}

// MarshalJSON encodes absent as null and a present value as a JSON integer.
func (i Index) MarshalJSON() ([]byte, error) {
	if !i.set {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(i.value), 10), nil
}

// UnmarshalJSON accepts null or a JSON integer.
func (i *Index) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = Index{}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("slice index: %w", err)
	}
	*i = At(v)
	return nil
}

// Spec is a (start, stop, step) slice specification.
type Spec struct {
	Start Index
	Stop  Index
	Step  Index
}

// NewSpec is shorthand for building a Spec from three components.
func NewSpec(start, stop, step Index) Spec {
	return Spec{Start: start, Stop: stop, Step: step}
}

// String renders the Spec as "start:stop:step" with empty fields for absent
// components, e.g. "1:4:" or "::-2".
func (s Spec) String() string {
	return s.Start.String() + ":" + s.Stop.String() + ":" + s.Step.String()
}

// MarshalJSON encodes the Spec as the three element array [start,stop,step].
func (s Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for n, c := range [3]Index{s.Start, s.Stop, s.Step} {
		if n > 0 {
			buf.WriteByte(',')
		}
		b, _ := c.MarshalJSON()
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a three element array of integers or nulls.
func (s *Spec) UnmarshalJSON(b []byte) error {
	var parts []Index
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("slice spec: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("slice spec: expected 3 components, got %d", len(parts))
	}
	*s = Spec{Start: parts[0], Stop: parts[1], Step: parts[2]}
	return nil
}
