package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// RunTrace is the canonical, deterministic record of one generate or verify
// run.
//
// Invariants:
//   - CorpusHash identifies the run inputs (grid, reference, aliasing mode).
//   - Events are logical facts about the corpus and its artifacts, never
//     runtime details: no timestamps, durations, paths or error strings.
//
// Two runs over the same inputs that reach the same outcome produce
// byte-identical canonical JSON, regardless of the order in which concurrent
// writers recorded their events.
type RunTrace struct {
	CorpusHash string
	Events     []Event
}

// EventKind is the stable discriminator of an Event. The string values are
// part of the canonical bytes; do not rename.
type EventKind string

const (
	EventCorpusBuilt      EventKind = "CorpusBuilt"
	EventZeroStartAliased EventKind = "ZeroStartAliased"
	EventArtifactWritten  EventKind = "ArtifactWritten"
	EventArtifactFailed   EventKind = "ArtifactFailed"
	EventArtifactVerified EventKind = "ArtifactVerified"
	EventArtifactMismatch EventKind = "ArtifactMismatch"
)

// Event is a single logical fact.
//
// Artifact is the artifact format ("compact", "gzip", ...) for artifact
// events and empty for corpus events. Count carries the entry count for
// CorpusBuilt and the number of rewritten entries for ZeroStartAliased.
// Digest is the sha256 of the artifact bytes for ArtifactWritten.
type Event struct {
	Kind     EventKind
	Artifact string
	Reason   string
	Digest   string
	Count    int
}

// Validate checks basic invariants and returns a descriptive error.
func (t *RunTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.CorpusHash == "" {
		return errors.New("corpusHash is required")
	}
	for i, e := range t.Events {
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if isArtifactEvent(e.Kind) && e.Artifact == "" {
			return fmt.Errorf("events[%d].artifact is required for kind %q", i, e.Kind)
		}
		if e.Count < 0 {
			return fmt.Errorf("events[%d].count is negative", i)
		}
	}
	return nil
}

func isArtifactEvent(kind EventKind) bool {
	switch kind {
	case EventArtifactWritten, EventArtifactFailed, EventArtifactVerified, EventArtifactMismatch:
		return true
	default:
		return false
	}
}

// Canonicalize sorts events into their canonical order:
// (artifact, kindOrder, reason, digest, count). Corpus events have an empty
// artifact and therefore sort first.
func (t *RunTrace) Canonicalize() {
	if t == nil {
		return
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		a, b := t.Events[i], t.Events[j]
		if a.Artifact != b.Artifact {
			return a.Artifact < b.Artifact
		}
		if kindOrder(a.Kind) != kindOrder(b.Kind) {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Reason != b.Reason {
			return a.Reason < b.Reason
		}
		if a.Digest != b.Digest {
			return a.Digest < b.Digest
		}
		return a.Count < b.Count
	})
}

func kindOrder(k EventKind) int {
	switch k {
	case EventCorpusBuilt:
		return 10
	case EventZeroStartAliased:
		return 20
	case EventArtifactWritten:
		return 30
	case EventArtifactFailed:
		return 40
	case EventArtifactVerified:
		return 50
	case EventArtifactMismatch:
		return 60
	default:
		return 1000
	}
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy to avoid mutating the caller's slice.
func (t RunTrace) CanonicalJSON() ([]byte, error) {
	cp := RunTrace{CorpusHash: t.CorpusHash, Events: make([]Event, len(t.Events))}
	copy(cp.Events, t.Events)
	cp.Canonicalize()
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&cp)
}

// Hash returns the sha256 hex digest of the canonical JSON bytes.
func (t RunTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// MarshalJSON fixes field order. It does not sort; see CanonicalJSON.
func (t RunTrace) MarshalJSON() ([]byte, error) {
	if t.CorpusHash == "" {
		return nil, errors.New("corpusHash is required")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"corpusHash":`)
	hb, _ := json.Marshal(t.CorpusHash)
	buf.Write(hb)
	buf.WriteString(`,"events":[`)
	for i := range t.Events {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(t.Events[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// MarshalJSON fixes field order and omits empty optional fields.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("kind is required")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"kind":`)
	kb, _ := json.Marshal(string(e.Kind))
	buf.Write(kb)

	field := func(name, value string) {
		if value == "" {
			return
		}
		buf.WriteString(`,"` + name + `":`)
		vb, _ := json.Marshal(value)
		buf.Write(vb)
	}
	field("artifact", e.Artifact)
	field("reason", e.Reason)
	field("digest", e.Digest)
	if e.Count != 0 {
		buf.WriteString(`,"count":`)
		buf.WriteString(strconv.Itoa(e.Count))
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
