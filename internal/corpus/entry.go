package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"slicevec/internal/slice"
)

// Entry pairs a Spec with the values it selects from the reference array.
type Entry struct {
	Spec   slice.Spec
	Result []int
}

// MarshalJSON encodes the entry as [[start,stop,step],[values...]].
// An empty result is written as [] rather than null.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	sb, err := e.Spec.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(sb)
	buf.WriteString(",[")
	for i, v := range e.Result {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(v))
	}
	buf.WriteString("]]")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the two element array form written by MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("corpus entry: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("corpus entry: expected 2 elements, got %d", len(parts))
	}
	var out Entry
	if err := json.Unmarshal(parts[0], &out.Spec); err != nil {
		return fmt.Errorf("corpus entry: %w", err)
	}
	if err := json.Unmarshal(parts[1], &out.Result); err != nil {
		return fmt.Errorf("corpus entry result: %w", err)
	}
	if out.Result == nil {
		out.Result = []int{}
	}
	*e = out
	return nil
}

// Corpus is the ordered collection of entries for one Grid.
//
// A Corpus is treated as immutable once built; exporters only read it.
type Corpus struct {
	Entries []Entry
}

// Len returns the number of entries.
func (c Corpus) Len() int { return len(c.Entries) }

// MarshalJSON encodes the corpus as a bare JSON array of entries.
func (c Corpus) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(c.Entries) * 32)
	buf.WriteByte('[')
	for i := range c.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := c.Entries[i].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a bare JSON array of entries.
func (c *Corpus) UnmarshalJSON(b []byte) error {
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	c.Entries = entries
	return nil
}
